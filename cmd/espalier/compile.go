package main

import (
	"fmt"
	"os"

	"github.com/espalier-dev/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the articy export into Ren'Py scripts",
	Long:  `Reads the articy:draft JSON export named in the settings file and writes the generated .rpy tree into the target directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := cmd.Flags().GetString("settings")
		if !cmd.Flags().Changed("settings") && len(args) > 0 {
			settings = args[0]
		}
		debug, _ := cmd.Flags().GetBool("debug")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		opts := cli.RunOptions{SettingsPath: settings, Debug: debug, DryRun: dryRun}
		if err := cli.RunCompile(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().Bool("dry-run", false, "Compile in memory without writing to the target directory")

	// Make 'compile' the default if no command is provided.
	rootCmd.Run = compileCmd.Run
}

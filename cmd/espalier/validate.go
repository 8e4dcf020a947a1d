package main

import (
	"fmt"
	"os"

	"github.com/espalier-dev/espalier/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the export compiles cleanly",
	Long:  `Runs the full compilation in memory and reports diagnostics without touching the target directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := cmd.Flags().GetString("settings")
		if !cmd.Flags().Changed("settings") && len(args) > 0 {
			settings = args[0]
		}
		debug, _ := cmd.Flags().GetBool("debug")

		if err := cli.RunValidate(cli.RunOptions{SettingsPath: settings, Debug: debug}); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Export is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

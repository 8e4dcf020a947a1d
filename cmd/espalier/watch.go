package main

import (
	"fmt"
	"os"

	"github.com/espalier-dev/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompile whenever the export changes",
	Long:  `Watches the articy export file and reruns the compilation on every save. Meant to run next to a Ren'Py instance with script auto-reload.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := cmd.Flags().GetString("settings")
		if !cmd.Flags().Changed("settings") && len(args) > 0 {
			settings = args[0]
		}
		debug, _ := cmd.Flags().GetBool("debug")

		if err := cli.RunWatch(cli.RunOptions{SettingsPath: settings, Debug: debug}); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

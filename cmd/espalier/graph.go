package main

import (
	"fmt"
	"os"

	"github.com/espalier-dev/espalier/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long:  `Loads the articy export and outputs a Mermaid diagram (graph TD) representing the flow logic.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings, _ := cmd.Flags().GetString("settings")
		if !cmd.Flags().Changed("settings") && len(args) > 0 {
			settings = args[0]
		}
		debug, _ := cmd.Flags().GetBool("debug")

		pipe, _, _, err := cli.NewPipeline(cli.RunOptions{SettingsPath: settings, Debug: debug})
		if err != nil {
			fmt.Printf("Error initializing espalier: %v\n", err)
			os.Exit(1)
		}

		mmd, err := pipe.Mermaid(cmd.Context())
		if err != nil {
			fmt.Printf("Error loading graph: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		fmt.Print(mmd)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

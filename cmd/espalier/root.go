package main

import (
	"fmt"
	"os"

	"github.com/espalier-dev/espalier/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier compiles articy:draft exports into Ren'Py scripts",
	Long:  `Espalier reads an articy:draft JSON export and generates a tree of Ren'Py .rpy files mirroring the flow hierarchy.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("settings", "s", config.DefaultFile, "Path to the settings file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

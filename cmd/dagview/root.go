package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dagview",
	Short: "dagview is the render coordinator of a live topology dashboard",
	Long: `dagview receives topology snapshots from producers and keeps every mounted
diagram in sync, deciding per snapshot whether to patch, re-render or defer.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML, JSON or TOML config file")
}

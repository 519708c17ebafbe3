package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dagview"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dagview",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dagview version %s\n", strings.TrimSpace(dagview.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/dagview/internal/presentation/graph"
	loamAdapter "github.com/aretw0/dagview/pkg/adapters/loam"
	"github.com/aretw0/dagview/pkg/domain"
	"github.com/aretw0/dagview/pkg/runner"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <snapshot|fixture>",
	Short: "Export a snapshot as a Mermaid diagram",
	Long:  `Reads a YAML or JSON snapshot and outputs a Mermaid flowchart with combos drawn as nested subgraphs.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		var snap domain.Snapshot
		if dir, _ := cmd.Flags().GetString("fixtures"); dir != "" {
			fixtures, ferr := loamAdapter.Open(dir)
			if ferr != nil {
				fmt.Printf("Error opening fixtures: %v\n", ferr)
				os.Exit(1)
			}
			snap, err = fixtures.Snapshot(context.Background(), args[0])
		} else {
			snap, err = runner.LoadSnapshot(args[0])
		}
		if err != nil {
			fmt.Printf("Error loading snapshot: %v\n", err)
			os.Exit(1)
		}

		rankDir := cfg.Layout.RankDir
		if cmd.Flags().Changed("rankdir") {
			rankDir, _ = cmd.Flags().GetString("rankdir")
		}

		var overlay *graph.Overlay
		if focus, _ := cmd.Flags().GetStringSlice("focus"); len(focus) > 0 {
			overlay = &graph.Overlay{Focused: focus}
		}

		fmt.Print(graph.GenerateMermaid(snap, rankDir, overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("rankdir", "LR", "Diagram direction (LR, TB, RL, BT)")
	graphCmd.Flags().String("fixtures", "", "Fixture directory; the argument is then a fixture name")
	graphCmd.Flags().StringSlice("focus", nil, "Element IDs to highlight")
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/dagview/internal/presentation/tui"
	"github.com/aretw0/dagview/pkg/runner"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay a scripted diagram session",
	Long: `Runs a YAML or JSON session script against a headless diagram and prints
the decision, render and report of every step.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		logger := newLogger(cfg)

		script, err := runner.LoadScript(args[0])
		if err != nil {
			fmt.Printf("Error loading script: %v\n", err)
			os.Exit(1)
		}

		// Replays are headless; they never touch the shared store.
		cfg.Redis.Addr = ""
		d, closeStore, err := newDashboard(cfg, logger)
		if err != nil {
			fmt.Printf("Error initializing dagview: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		report, err := d.Replay(context.Background(), script)
		if err != nil {
			fmt.Printf("Replay failed: %v\n", err)
			os.Exit(1)
		}

		out, err := tui.RendererFor(os.Stdout)(report.Markdown())
		if err != nil {
			fmt.Print(report.Markdown())
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

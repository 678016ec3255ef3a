package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/briefing"
)

var (
	contextWorkdir string
	contextBudget  int
)

// contextCmd is the hook-callable entrypoint (spec.md §4.15): once it
// runs, it prints whatever block AutoContext produces (empty on any
// internal failure) and never blocks past its deadline. It does not trap
// failures of the root command's engine setup: if the data root cannot be
// opened, the command exits non-zero before this handler runs.
var contextCmd = &cobra.Command{
	Use:   "context <prompt>",
	Short: "Auto-inject a compact context block for a prompt (hook-callable, fail-silent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		block := briefing.AutoContext(context.Background(), contextWorkdir, args[0], nil, mustEngine().Retrieval, contextBudget)
		fmt.Print(block)
		return nil
	},
}

func init() {
	contextCmd.Flags().StringVar(&contextWorkdir, "workdir", "", "working-directory cue used to derive a project tag")
	contextCmd.Flags().IntVar(&contextBudget, "budget", 2000, "approximate token budget for the injected block")
	rootCmd.AddCommand(contextCmd)
}

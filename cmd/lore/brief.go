package main

import (
	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/briefing"
)

var briefCmd = &cobra.Command{
	Use:   "brief <topic>",
	Short: "Cross-component topic briefing: decisions, patterns, failures, graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := mustEngine().Briefing.Brief(args[0])
		if err != nil {
			return err
		}
		printMarkdown(briefing.Render(report))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(briefCmd)
}

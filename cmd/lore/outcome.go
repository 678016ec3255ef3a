package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/outcome"
)

var outcomeCmd = &cobra.Command{
	Use:   "outcome",
	Short: "Track and resolve pending decision outcomes",
}

var outcomeListOlderThan int

var outcomeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending decisions older than N days (default 3)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pending, err := mustEngine().Outcome.List(outcomeListOlderThan)
		if err != nil {
			return err
		}
		for _, p := range pending {
			fmt.Printf("%s  %3dd  %-14s %s\n", p.Decision.ID, p.AgeDays, p.Decision.Type, p.Decision.Decision)
		}
		return nil
	},
}

var outcomeResolveLesson string

var outcomeResolveCmd = &cobra.Command{
	Use:   "resolve <id> <successful|revised|abandoned>",
	Short: "Resolve a pending decision's outcome",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Outcome.Resolve(args[0], outcome.Outcome(args[1]), outcomeResolveLesson)
	},
}

func init() {
	outcomeListCmd.Flags().IntVar(&outcomeListOlderThan, "older-than", 0, "age threshold in days (default 3)")
	outcomeResolveCmd.Flags().StringVar(&outcomeResolveLesson, "lesson", "", "lesson learned")

	outcomeCmd.AddCommand(outcomeListCmd, outcomeResolveCmd)
	rootCmd.AddCommand(outcomeCmd)
}

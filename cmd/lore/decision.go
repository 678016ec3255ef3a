package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/journal"
	"github.com/lore-dev/lore/internal/loretypes"
)

var decisionCmd = &cobra.Command{
	Use:   "decision",
	Short: "Query and maintain the decision journal",
}

var decisionGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print the latest revision of a decision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := mustEngine().Journal.Get(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(d)
		}
		printDecision(d)
		return nil
	},
}

var (
	decisionListRecent  int
	decisionListType    string
	decisionListOutcome string
	decisionListTag     string
	decisionListProject string
	decisionListSession string
)

var decisionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decisions matching filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		decisions, err := mustEngine().Journal.List(journal.Filters{
			Recent:       decisionListRecent,
			ByType:       loretypes.DecisionType(decisionListType),
			ByOutcome:    loretypes.DecisionOutcome(decisionListOutcome),
			ByTag:        decisionListTag,
			ByProjectTag: decisionListProject,
			BySession:    decisionListSession,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(decisions)
		}
		for _, d := range decisions {
			printDecisionLine(d)
		}
		return nil
	},
}

var decisionSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text substring search across decisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decisions, err := mustEngine().Journal.Search(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(decisions)
		}
		for _, d := range decisions {
			printDecisionLine(d)
		}
		return nil
	},
}

var decisionUpdateCmd = &cobra.Command{
	Use:   "update <id> <field> <value>",
	Short: "Append a new revision with one field replaced",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Journal.Update(args[0], args[1], args[2])
	},
}

var decisionStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Totals and histograms over the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := mustEngine().Journal.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("total: %d\n", stats.Total)
		fmt.Println("by type:")
		for t, n := range stats.ByType {
			fmt.Printf("  %-15s %d\n", t, n)
		}
		fmt.Println("by outcome:")
		for o, n := range stats.ByOutcome {
			fmt.Printf("  %-15s %d\n", o, n)
		}
		return nil
	},
}

var decisionCompactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite the journal keeping only the latest revision per id",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Journal.Compact()
	},
}

func printDecision(d *loretypes.Decision) {
	fmt.Println(styleBold.Render(d.ID))
	fmt.Println(d.Decision)
	if d.Rationale != "" {
		fmt.Println(styleMuted.Render("rationale: " + d.Rationale))
	}
	fmt.Printf("type=%s outcome=%s status=%s quality=%.2f\n", d.Type, d.Outcome, d.Status, d.SpecQuality)
	if len(d.Tags) > 0 {
		fmt.Println(styleAccent.Render("tags: " + fmt.Sprint(d.Tags)))
	}
}

func printDecisionLine(d *loretypes.Decision) {
	fmt.Printf("%s  %-14s %-11s %s\n", d.ID, d.Type, d.Outcome, d.Decision)
}

func init() {
	decisionListCmd.Flags().IntVar(&decisionListRecent, "recent", 0, "limit to the N most recent")
	decisionListCmd.Flags().StringVar(&decisionListType, "type", "", "filter by decision type")
	decisionListCmd.Flags().StringVar(&decisionListOutcome, "outcome", "", "filter by outcome")
	decisionListCmd.Flags().StringVar(&decisionListTag, "tag", "", "filter by tag")
	decisionListCmd.Flags().StringVar(&decisionListProject, "project", "", "filter by project tag prefix")
	decisionListCmd.Flags().StringVar(&decisionListSession, "session", "", "filter by session id")

	decisionCmd.AddCommand(decisionGetCmd, decisionListCmd, decisionSearchCmd, decisionUpdateCmd, decisionStatsCmd, decisionCompactCmd)
	rootCmd.AddCommand(decisionCmd)
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/journal"
)

var (
	decideRationale    string
	decideAlternatives []string
	decideTags         []string
	decideLesson       string
	decideForce        bool
)

var decideCmd = &cobra.Command{
	Use:   "decide <decision text>",
	Short: "Record a new decision in the journal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, matches, err := mustEngine().Journal.Record(journal.RecordInput{
			Decision:      strings.Join(args, " "),
			Rationale:     decideRationale,
			Alternatives:  decideAlternatives,
			Tags:          decideTags,
			LessonLearned: decideLesson,
			Force:         decideForce,
		})
		if err != nil {
			return err
		}
		fmt.Println(styleGood.Render("recorded"), id)
		for _, m := range matches {
			fmt.Printf("  %s %s (similarity %.0f%%)\n", styleWarn.Render("~"), m.ID, m.Similarity*100)
		}
		return nil
	},
}

func init() {
	decideCmd.Flags().StringVar(&decideRationale, "rationale", "", "why this decision was made")
	decideCmd.Flags().StringSliceVar(&decideAlternatives, "alternative", nil, "an alternative that was considered (repeatable)")
	decideCmd.Flags().StringSliceVar(&decideTags, "tag", nil, "a tag, e.g. proj:lore (repeatable)")
	decideCmd.Flags().StringVar(&decideLesson, "lesson", "", "lesson learned, if any")
	decideCmd.Flags().BoolVar(&decideForce, "force", false, "bypass the duplicate guard")
	rootCmd.AddCommand(decideCmd)
}

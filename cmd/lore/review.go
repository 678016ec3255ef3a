package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Advisory subtraction check: contradictions, stale pending, low-confidence patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := mustEngine().Briefing.SubtractionCheck()
		if err != nil {
			return err
		}
		for _, line := range report.SummaryLines() {
			fmt.Println(line)
		}
		if len(report.Contradictions) > 0 {
			fmt.Println()
			fmt.Println(styleWarn.Render("contradictions:"))
			for _, c := range report.Contradictions {
				fmt.Printf("  %s <-> %s\n", c.A.ID, c.B.ID)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/pattern"
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Capture, validate, and query the pattern catalogue",
}

var (
	patternCaptureContext  string
	patternCaptureProblem  string
	patternCaptureSolution string
	patternCaptureCategory string
	patternCaptureOrigin   string
	patternCaptureForce    bool
)

var patternCaptureCmd = &cobra.Command{
	Use:   "capture <name>",
	Short: "Capture a reusable solution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, matches, err := mustEngine().Pattern.Capture(pattern.CaptureInput{
			Name:     args[0],
			Context:  patternCaptureContext,
			Problem:  patternCaptureProblem,
			Solution: patternCaptureSolution,
			Category: loretypes.PatternCategory(patternCaptureCategory),
			Origin:   patternCaptureOrigin,
			Force:    patternCaptureForce,
		})
		if err != nil {
			return err
		}
		fmt.Println(styleGood.Render("captured"), id)
		for _, m := range matches {
			fmt.Printf("  %s %s (similarity %.0f%%)\n", styleWarn.Render("~"), m.ID, m.Similarity*100)
		}
		return nil
	},
}

var patternValidateCmd = &cobra.Command{
	Use:   "validate <id>",
	Short: "Increment validations and raise confidence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Pattern.Validate(args[0])
	},
}

var patternDeprecateCmd = &cobra.Command{
	Use:   "deprecate <id>",
	Short: "Mark a pattern deprecated",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Pattern.Deprecate(args[0])
	},
}

var (
	patternWarnRisk     string
	patternWarnFix      string
	patternWarnCategory string
	patternWarnSeverity string
)

var patternWarnCmd = &cobra.Command{
	Use:   "warn <name> <symptom>",
	Short: "Record an anti-pattern",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mustEngine().Pattern.Warn(args[1], patternWarnRisk, patternWarnFix, args[0],
			loretypes.PatternCategory(patternWarnCategory), loretypes.AntiPatternSeverity(patternWarnSeverity))
		if err != nil {
			return err
		}
		fmt.Println(styleWarn.Render("anti-pattern recorded"), id)
		return nil
	},
}

var patternShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := mustEngine().Pattern.Show(args[0])
		if err != nil {
			return err
		}
		printPattern(p)
		return nil
	},
}

var patternListCategory string

var patternListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patterns, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns, err := mustEngine().Pattern.List(loretypes.PatternCategory(patternListCategory))
		if err != nil {
			return err
		}
		for _, p := range patterns {
			stale := ""
			if pattern.IsStale(p) {
				stale = styleWarn.Render(" [stale]")
			}
			fmt.Printf("%s  %-12s confidence=%.2f validations=%d%s  %s\n", p.ID, p.Category, p.Confidence, p.Validations, stale, p.Name)
		}
		return nil
	},
}

var patternCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run regex-based anti-pattern checks over a code file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		issues := pattern.Check(string(content))
		if len(issues) == 0 {
			fmt.Println(styleGood.Render("no issues found"))
			return nil
		}
		for _, issue := range issues {
			fmt.Printf("%s:%d  %s  %s\n", args[0], issue.Line, styleWarn.Render(issue.Rule), issue.Message)
		}
		return nil
	},
}

func printPattern(p *loretypes.Pattern) {
	fmt.Println(styleBold.Render(p.ID), p.Name)
	fmt.Printf("category=%s confidence=%.2f validations=%d deprecated=%v\n", p.Category, p.Confidence, p.Validations, p.Deprecated)
	if p.Problem != "" {
		fmt.Println(styleMuted.Render("problem: " + p.Problem))
	}
	if p.Solution != "" {
		fmt.Println(styleMuted.Render("solution: " + p.Solution))
	}
}

func init() {
	patternCaptureCmd.Flags().StringVar(&patternCaptureContext, "context", "", "when this pattern applies")
	patternCaptureCmd.Flags().StringVar(&patternCaptureProblem, "problem", "", "the problem it solves")
	patternCaptureCmd.Flags().StringVar(&patternCaptureSolution, "solution", "", "the solution")
	patternCaptureCmd.Flags().StringVar(&patternCaptureCategory, "category", string(loretypes.CategoryGeneral), "pattern category")
	patternCaptureCmd.Flags().StringVar(&patternCaptureOrigin, "origin", "", "where this pattern came from")
	patternCaptureCmd.Flags().BoolVar(&patternCaptureForce, "force", false, "bypass the duplicate guard")

	patternWarnCmd.Flags().StringVar(&patternWarnRisk, "risk", "", "what goes wrong")
	patternWarnCmd.Flags().StringVar(&patternWarnFix, "fix", "", "how to fix it")
	patternWarnCmd.Flags().StringVar(&patternWarnCategory, "category", string(loretypes.CategoryGeneral), "anti-pattern category")
	patternWarnCmd.Flags().StringVar(&patternWarnSeverity, "severity", string(loretypes.SeverityMedium), "severity")

	patternListCmd.Flags().StringVar(&patternListCategory, "category", "", "filter by category")

	patternCmd.AddCommand(patternCaptureCmd, patternValidateCmd, patternDeprecateCmd, patternWarnCmd,
		patternShowCmd, patternListCmd, patternCheckCmd)
	rootCmd.AddCommand(patternCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/failure"
)

var failureCmd = &cobra.Command{
	Use:   "failure",
	Short: "Append to and query the failure log",
}

var (
	failureAppendTool string
	failureAppendStep string
)

var failureAppendCmd = &cobra.Command{
	Use:   "append <error-type> <message>",
	Short: "Append a failure record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mustEngine().Failure.Append(args[0], args[1], failureAppendTool, failureAppendStep, "")
		if err != nil {
			return err
		}
		fmt.Println(styleBad.Render("recorded"), id)
		return nil
	},
}

var failureListErrorType string

var failureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded failures",
	RunE: func(cmd *cobra.Command, args []string) error {
		failures, err := mustEngine().Failure.List(failure.Filters{ErrorType: failureListErrorType})
		if err != nil {
			return err
		}
		for _, f := range failures {
			fmt.Printf("%s  %-20s %s\n", f.ID, f.ErrorType, f.ErrorMessage)
		}
		return nil
	},
}

var failureStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count failures by error type",
	RunE: func(cmd *cobra.Command, args []string) error {
		counts, err := mustEngine().Failure.StatsByType()
		if err != nil {
			return err
		}
		for errType, n := range counts {
			fmt.Printf("%-25s %d\n", errType, n)
		}
		return nil
	},
}

func init() {
	failureAppendCmd.Flags().StringVar(&failureAppendTool, "tool", "", "tool that raised the failure")
	failureAppendCmd.Flags().StringVar(&failureAppendStep, "step", "", "step being performed")
	failureListCmd.Flags().StringVar(&failureListErrorType, "error-type", "", "filter by error type")

	failureCmd.AddCommand(failureAppendCmd, failureListCmd, failureStatsCmd)
	rootCmd.AddCommand(failureCmd)
}

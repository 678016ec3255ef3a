package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/loretypes"
	"github.com/lore-dev/lore/internal/transfer"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage session handoffs: init, snapshot, handoff, resume, compress",
}

var sessionInitCmd = &cobra.Command{
	Use:   "init <summary>",
	Short: "Start a new session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mustEngine().Transfer.Init(args[0])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var sessionSnapshotCmd = &cobra.Command{
	Use:   "snapshot <session-id>",
	Short: "Capture current context into the active session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Transfer.Snapshot(args[0], transfer.SnapshotInput{})
	},
}

var (
	sessionHandoffNextSteps []string
	sessionHandoffBlockers  []string
	sessionHandoffQuestions []string
)

var sessionHandoffCmd = &cobra.Command{
	Use:   "handoff <session-id> <message>",
	Short: "End a session and write a handoff message for the next one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Transfer.Handoff(args[0], transfer.HandoffInput{
			Message:   args[1],
			NextSteps: sessionHandoffNextSteps,
			Blockers:  sessionHandoffBlockers,
			Questions: sessionHandoffQuestions,
		})
	},
}

var sessionResumeCmd = &cobra.Command{
	Use:   "resume [session-id]",
	Short: "Load the latest (or given) session and run the subtraction check",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}
		sess, err := mustEngine().Transfer.Resume(id)
		if err != nil {
			return err
		}
		printSession(sess)

		report, err := mustEngine().Briefing.SubtractionCheck()
		if err != nil {
			return err
		}
		fmt.Println()
		for _, line := range report.SummaryLines() {
			fmt.Println(line)
		}
		return nil
	},
}

var sessionCompressCmd = &cobra.Command{
	Use:   "compress <session-id>",
	Short: "Write a compressed copy of an ended session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ratio, err := mustEngine().Transfer.Compress(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("essence ratio: %.2f\n", ratio)
		return nil
	},
}

func printSession(s *loretypes.Session) {
	fmt.Println(styleBold.Render(s.ID))
	if s.Summary != "" {
		fmt.Println(s.Summary)
	}
	if s.Handoff.Message != "" {
		fmt.Println(styleAccent.Render("handoff: ") + s.Handoff.Message)
	}
	for _, step := range s.Handoff.NextSteps {
		fmt.Println("  - " + step)
	}
}

func init() {
	sessionHandoffCmd.Flags().StringSliceVar(&sessionHandoffNextSteps, "next", nil, "a next step (repeatable)")
	sessionHandoffCmd.Flags().StringSliceVar(&sessionHandoffBlockers, "blocker", nil, "a blocker (repeatable)")
	sessionHandoffCmd.Flags().StringSliceVar(&sessionHandoffQuestions, "question", nil, "an open question (repeatable)")

	sessionCmd.AddCommand(sessionInitCmd, sessionSnapshotCmd, sessionHandoffCmd, sessionResumeCmd, sessionCompressCmd)
	rootCmd.AddCommand(sessionCmd)
}

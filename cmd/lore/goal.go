package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/intent"
	"github.com/lore-dev/lore/internal/loretypes"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage the goal/spec lifecycle",
}

var (
	goalCreateDescription string
	goalCreatePriority    string
	goalCreateProjects    []string
	goalCreateTags        []string
)

var goalCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new goal in the specify phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mustEngine().Intent.Create(intent.CreateInput{
			Name:        args[0],
			Description: goalCreateDescription,
			Priority:    loretypes.GoalPriority(goalCreatePriority),
			Projects:    goalCreateProjects,
			Tags:        goalCreateTags,
		})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var goalListStatus string

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals, optionally filtered by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := mustEngine().Intent.List(loretypes.GoalStatus(goalListStatus))
		if err != nil {
			return err
		}
		for _, g := range goals {
			fmt.Printf("%s  %-10s %-10s %-12s %s\n", g.ID, g.Status, g.Priority, g.Lifecycle.Phase, g.Name)
		}
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <goal-id>",
	Short: "Advance a goal's lifecycle phase",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Intent.Progress(args[0])
	},
}

var goalAssignCmd = &cobra.Command{
	Use:   "assign <goal-id> <session-id>",
	Short: "Bind a goal to a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().AssignGoal(args[0], args[1])
	},
}

var (
	goalCompleteStatus    string
	goalCompleteSessionID string
)

var goalCompleteCmd = &cobra.Command{
	Use:   "complete <goal-id> <notes>",
	Short: "Complete a goal and record a summarizing decision",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().CompleteGoal(args[0], loretypes.OutcomeStatus(goalCompleteStatus), args[1], goalCompleteSessionID)
	},
}

var goalImportCmd = &cobra.Command{
	Use:   "import <spec-file>",
	Short: "Import an external spec file as a goal, recording any companion plan decisions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := mustEngine()
		id, err := e.Intent.ImportSpec(args[0], e.DecisionRecorder())
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	goalCreateCmd.Flags().StringVar(&goalCreateDescription, "description", "", "goal description")
	goalCreateCmd.Flags().StringVar(&goalCreatePriority, "priority", string(loretypes.PriorityMedium), "priority")
	goalCreateCmd.Flags().StringSliceVar(&goalCreateProjects, "project", nil, "a project this goal touches (repeatable)")
	goalCreateCmd.Flags().StringSliceVar(&goalCreateTags, "tag", nil, "a tag (repeatable)")

	goalListCmd.Flags().StringVar(&goalListStatus, "status", "", "filter by status")

	goalCompleteCmd.Flags().StringVar(&goalCompleteStatus, "status", string(loretypes.GoalOutcomeCompleted), "outcome status")
	goalCompleteCmd.Flags().StringVar(&goalCompleteSessionID, "session", "", "session id to clear the spec binding on")

	goalCmd.AddCommand(goalCreateCmd, goalListCmd, goalProgressCmd, goalAssignCmd, goalCompleteCmd, goalImportCmd)
	rootCmd.AddCommand(goalCmd)
}

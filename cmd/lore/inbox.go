package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/loretypes"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Stage raw observations for later promotion into other stores",
}

var (
	inboxObserveSource string
	inboxObserveTags   []string
)

var inboxObserveCmd = &cobra.Command{
	Use:   "observe <text>",
	Short: "Append a raw observation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mustEngine().Inbox.Observe(args[0], inboxObserveSource, inboxObserveTags)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var (
	inboxListStatus string
	inboxWatch      bool
)

var inboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List observations, optionally filtered by status, or watch for new ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inboxWatch {
			return watchInbox()
		}
		obs, err := mustEngine().Inbox.List(loretypes.ObservationStatus(inboxListStatus))
		if err != nil {
			return err
		}
		printObservations(obs)
		return nil
	},
}

var inboxPromoteCmd = &cobra.Command{
	Use:   "promote <id>",
	Short: "Mark an observation promoted (caller still creates the target entry)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Inbox.Promote(args[0])
	},
}

var inboxDiscardCmd = &cobra.Command{
	Use:   "discard <id>",
	Short: "Mark an observation discarded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Inbox.Discard(args[0])
	},
}

func printObservations(obs []*loretypes.Observation) {
	for _, o := range obs {
		fmt.Printf("%s  %-10s %s\n", o.ID, o.Status, o.Content)
	}
}

// watchInbox follows the teacher's show_display.go pattern of watching a
// directory with fsnotify and debouncing writes to the file that
// matters, re-listing observations each time the inbox log changes.
func watchInbox() error {
	e := mustEngine()
	inboxFile := e.Layout.InboxFile()
	dir := filepath.Dir(inboxFile)
	target := filepath.Base(inboxFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}

	list := func() {
		obs, err := e.Inbox.List(loretypes.ObservationStatus(inboxListStatus))
		if err != nil {
			fmt.Fprintln(os.Stderr, styleBad.Render("error: "), err)
			return
		}
		printObservations(obs)
	}
	list()

	fmt.Fprintln(os.Stderr, styleMuted.Render("watching for new observations... (Ctrl+C to exit)"))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && filepath.Base(event.Name) == target {
				list()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, styleBad.Render("watcher error: "), err)
		}
	}
}

func init() {
	inboxObserveCmd.Flags().StringVar(&inboxObserveSource, "source", "", "where this observation came from")
	inboxObserveCmd.Flags().StringSliceVar(&inboxObserveTags, "tag", nil, "a tag (repeatable)")
	inboxListCmd.Flags().StringVar(&inboxListStatus, "status", "", "filter by status (raw|promoted|discarded)")
	inboxListCmd.Flags().BoolVar(&inboxWatch, "watch", false, "keep running, re-listing on every new observation")

	inboxCmd.AddCommand(inboxObserveCmd, inboxListCmd, inboxPromoteCmd, inboxDiscardCmd)
	rootCmd.AddCommand(inboxCmd)
}

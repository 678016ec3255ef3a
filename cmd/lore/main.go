// Command lore is the CLI entrypoint over every component store: a
// decision journal, pattern catalogue, failure log, knowledge graph,
// session handoffs, goal lifecycle, inbox, and the hybrid search index
// that ties them together.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/engine"
	"github.com/lore-dev/lore/internal/lorelog"
)

var (
	dataRoot   string
	jsonOutput bool
	eng        *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "lore",
	Short: "lore - persistent memory for long-running engineering work",
	Long: `lore keeps a decision journal, pattern catalogue, failure log, and
knowledge graph across sessions, and serves them back through a hybrid
search index so an agent or developer can pick up exactly where a prior
session left off.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "completion", "version":
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		root := dataRoot
		if root == "" {
			root = defaultDataRoot()
		}
		e, err := engine.Open(root, cfg, lorelog.FromEnv())
		if err != nil {
			return fmt.Errorf("open lore data root %s: %w", root, err)
		}
		eng = e
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if eng == nil {
			return nil
		}
		return eng.Close()
	},
}

func defaultDataRoot() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".lore")
	}
	return ".lore"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataRoot, "data", "", "data root directory (default: ~/.lore)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit JSON instead of formatted text")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to lore.toml (default: <data>/lore.toml)")
}

func main() {
	os.Exit(run())
}

func run() int {
	shutdown, err := lorelog.InitMetrics(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "metrics init:", err)
		shutdown = func(context.Context) error { return nil }
	}
	defer func() { _ = shutdown(context.Background()) }()

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// mustEngine exits the process with a clear message if a command runs
// without the persistent engine having been opened - this should only
// happen if PersistentPreRunE was skipped, which cobra never does for a
// leaf command.
func mustEngine() *engine.Engine {
	if eng == nil {
		fmt.Fprintln(os.Stderr, "internal error: engine not initialized")
		os.Exit(1)
	}
	return eng
}

// outputJSON marshals v to stdout, following the teacher's --json
// convention of a single indented JSON document per invocation.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

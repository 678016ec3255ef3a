package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/retrieval"
)

var (
	searchMode    string
	searchProject string
	searchLimit   int
	searchCompact bool
	searchDepth   int
	searchEdges   []string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Query the hybrid search index (fts | semantic | hybrid | graph)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		for _, a := range args[1:] {
			query += " " + a
		}
		results, err := mustEngine().Retrieval.Query(context.Background(), query, retrieval.QueryOptions{
			Mode:    retrieval.Mode(searchMode),
			Project: searchProject,
			Limit:   searchLimit,
			Compact: searchCompact,
			Depth:   searchDepth,
			Edges:   searchEdges,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(results)
		}
		if searchCompact {
			for _, line := range retrieval.FormatCompact(results) {
				fmt.Println(line)
			}
			return nil
		}
		for _, r := range results {
			fmt.Printf("[%s] %-12s %-10s %.3f  %s\n", r.Type, r.ID, r.Project, r.Score, truncate(r.Content, 80))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func init() {
	searchCmd.Flags().StringVar(&searchMode, "mode", "fts", "fts | semantic | hybrid | graph")
	searchCmd.Flags().StringVar(&searchProject, "project", "", "boost results sharing this project")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
	searchCmd.Flags().BoolVar(&searchCompact, "compact", false, "fixed-width one-line-per-result output")
	searchCmd.Flags().IntVar(&searchDepth, "depth", 2, "graph-expanded search BFS depth (mode=graph)")
	searchCmd.Flags().StringSliceVar(&searchEdges, "edge", nil, "restrict graph expansion to these edge relations (mode=graph)")
	rootCmd.AddCommand(searchCmd)
}

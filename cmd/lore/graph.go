package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lore-dev/lore/internal/graph"
	"github.com/lore-dev/lore/internal/loretypes"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Query and mutate the knowledge graph",
}

var graphAddNodeType string

var graphAddNodeCmd = &cobra.Command{
	Use:   "add-node <name>",
	Short: "Add (or merge into) a graph node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := mustEngine().Graph.AddNode(loretypes.NodeType(graphAddNodeType), args[0], nil)
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var (
	graphAddEdgeWeight        float64
	graphAddEdgeBidirectional bool
)

var graphAddEdgeCmd = &cobra.Command{
	Use:   "add-edge <from> <to> <relation>",
	Short: "Add or upsert an edge between two node ids",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Graph.AddEdge(args[0], args[1], loretypes.EdgeRelation(args[2]), graphAddEdgeWeight, graphAddEdgeBidirectional)
	},
}

var graphNeighborsCmd = &cobra.Command{
	Use:   "neighbors <node>",
	Short: "List the unique union of incoming and outgoing neighbors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := mustEngine().Graph.Neighbors(args[0])
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

var graphBFSDepth int

var graphBFSCmd = &cobra.Command{
	Use:   "bfs <node>",
	Short: "Breadth-first walk from a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hops, err := mustEngine().Graph.BFS(args[0], graphBFSDepth)
		if err != nil {
			return err
		}
		for _, h := range hops {
			fmt.Printf("%d  %s\n", h.Depth, h.NodeID)
		}
		return nil
	},
}

var graphShortestPathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Shortest path between two nodes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := mustEngine().Graph.ShortestPath(args[0], args[1])
		if err != nil {
			return err
		}
		if len(path) == 0 {
			fmt.Println(styleMuted.Render("no path"))
			return nil
		}
		for i, id := range path {
			if i > 0 {
				fmt.Print(" -> ")
			}
			fmt.Print(id)
		}
		fmt.Println()
		return nil
	},
}

var graphRelatedMaxHops int

var graphRelatedCmd = &cobra.Command{
	Use:   "related <node>",
	Short: "Nodes within max-hops, tagged with hop count and relation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hops, err := mustEngine().Graph.Related(args[0], graphRelatedMaxHops)
		if err != nil {
			return err
		}
		for _, h := range hops {
			fmt.Printf("%d  %-15s %s\n", h.Hops, h.Relation, h.NodeID)
		}
		return nil
	},
}

var graphClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Connected components over the undirected skeleton",
	RunE: func(cmd *cobra.Command, args []string) error {
		clusters, err := mustEngine().Graph.Clusters()
		if err != nil {
			return err
		}
		for i, c := range clusters {
			fmt.Printf("cluster %d: %v\n", i, c)
		}
		return nil
	},
}

var graphOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Nodes with no incident active edge",
	RunE: func(cmd *cobra.Command, args []string) error {
		orphans, err := mustEngine().Graph.Orphans()
		if err != nil {
			return err
		}
		for _, id := range orphans {
			fmt.Println(id)
		}
		return nil
	},
}

var graphHubsLimit int

var graphHubsCmd = &cobra.Command{
	Use:   "hubs",
	Short: "Nodes sorted by total edge degree",
	RunE: func(cmd *cobra.Command, args []string) error {
		hubs, err := mustEngine().Graph.Hubs(graphHubsLimit)
		if err != nil {
			return err
		}
		for _, h := range hubs {
			fmt.Printf("%-4d %s\n", h.Degree, h.NodeID)
		}
		return nil
	},
}

var graphSearchType string

var graphSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-match nodes by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := mustEngine().Graph.Search(args[0], graph.SearchFilters{Type: loretypes.NodeType(graphSearchType)})
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("%.2f  %-10s %s\n", r.Score, r.Node.Type, r.Node.Name)
		}
		return nil
	},
}

var graphDeleteNodeCmd = &cobra.Command{
	Use:   "delete-node <id>",
	Short: "Remove a node and every edge incident to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mustEngine().Graph.DeleteNode(args[0])
	},
}

var graphDeleteEdgeCmd = &cobra.Command{
	Use:   "delete-edge <from> <to> [relation]",
	Short: "Hard-remove edges matching (from,to) and, if given, relation",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var relation loretypes.EdgeRelation
		if len(args) == 3 {
			relation = loretypes.EdgeRelation(args[2])
		}
		return mustEngine().Graph.DeleteEdge(args[0], args[1], relation)
	},
}

var graphDeprecateEdgeCmd = &cobra.Command{
	Use:   "deprecate-edge <from> <to> [relation]",
	Short: "Mark matching edges deprecated; query operations ignore them",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var relation loretypes.EdgeRelation
		if len(args) == 3 {
			relation = loretypes.EdgeRelation(args[2])
		}
		return mustEngine().Graph.DeprecateEdge(args[0], args[1], relation)
	},
}

var graphSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror every active decision into the graph as a decision node",
	RunE: func(cmd *cobra.Command, args []string) error {
		added, err := mustEngine().SyncGraph()
		if err != nil {
			return err
		}
		fmt.Printf("%d node(s) added\n", added)
		return nil
	},
}

func init() {
	graphAddNodeCmd.Flags().StringVar(&graphAddNodeType, "type", string(loretypes.NodeConcept), "node type")
	graphAddEdgeCmd.Flags().Float64Var(&graphAddEdgeWeight, "weight", 1.0, "edge weight")
	graphAddEdgeCmd.Flags().BoolVar(&graphAddEdgeBidirectional, "bidirectional", false, "also upsert the reverse edge")
	graphBFSCmd.Flags().IntVar(&graphBFSDepth, "depth", 3, "max depth")
	graphRelatedCmd.Flags().IntVar(&graphRelatedMaxHops, "max-hops", 2, "max hops")
	graphHubsCmd.Flags().IntVar(&graphHubsLimit, "limit", 10, "number of hubs to show")
	graphSearchCmd.Flags().StringVar(&graphSearchType, "type", "", "restrict to a node type")

	graphCmd.AddCommand(graphAddNodeCmd, graphAddEdgeCmd, graphNeighborsCmd, graphBFSCmd, graphShortestPathCmd,
		graphRelatedCmd, graphClustersCmd, graphOrphansCmd, graphHubsCmd, graphSearchCmd,
		graphDeleteNodeCmd, graphDeleteEdgeCmd, graphDeprecateEdgeCmd, graphSyncCmd)
	rootCmd.AddCommand(graphCmd)
}

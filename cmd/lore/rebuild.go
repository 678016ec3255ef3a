package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from every component's current records",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mustEngine().Rebuild(context.Background()); err != nil {
			return err
		}
		fmt.Println(styleGood.Render("search index rebuilt"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

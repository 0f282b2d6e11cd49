// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chatbook/internal/library"
	"github.com/pdiddy/chatbook/internal/split"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain a SQLite catalog of an export (build, stats)",
	Long: `Index catalogs the conversations of an export in a SQLite database:
one row per conversation with its title, timestamps, month, and visible
message count. The catalog answers statistics queries without reparsing
the export.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build <export.json> <db>",
	Short: "Catalog an export into a SQLite database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		convs, err := split.Load(args[0])
		if err != nil {
			return err
		}

		store, err := library.NewStore(args[1])
		if err != nil {
			return err
		}
		defer store.Close()

		_, err = store.Ingest(context.Background(), convs, os.Stdout)
		return err
	},
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats <db>",
	Short: "Print per-month conversation and message totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := library.NewStore(args[0])
		if err != nil {
			return err
		}
		defer store.Close()

		return store.Stats(context.Background(), os.Stdout)
	},
}

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	rootCmd.AddCommand(indexCmd)
}

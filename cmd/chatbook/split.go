// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chatbook/internal/split"
	"github.com/pdiddy/chatbook/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split <input> <output-dir>",
	Short: "Split a large export into smaller grouped JSON files",
	Long: `Split reads one big conversations.json export and writes one JSON
file per bucket into the output directory. Buckets group by calendar
month (default), ISO week, sanitized title, or date_title (per-month
directories holding one file per title).

Conversations pass through verbatim; only the grouping key is derived
from their timestamps or titles. Conversations without a usable
timestamp land in an "unknown" bucket.`,
	Args: cobra.ExactArgs(2),
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := splitConfig(cmd)
	if err != nil {
		return err
	}
	input, outputDir := args[0], args[1]

	fmt.Printf("Loading conversations from %s ...\n", input)
	convs, err := split.Load(input)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d conversations.\n", len(convs))

	fmt.Printf("Grouping by %s ...\n", cfg.Mode)
	buckets := split.Group(convs, cfg.Mode)

	fmt.Printf("Writing %d bucket files into %s ...\n", len(buckets), outputDir)
	if err := split.WriteBuckets(buckets, outputDir, cfg, os.Stdout); err != nil {
		return err
	}

	fmt.Println("Done.")
	return nil
}

// splitConfig resolves the splitter settings: explicit flags win, then
// chatbook.yaml, then the built-in defaults.
func splitConfig(cmd *cobra.Command) (types.SplitConfig, error) {
	mode, _ := cmd.Flags().GetString("mode")
	if !cmd.Flags().Changed("mode") {
		mode = viper.GetString("split.mode")
	}

	prefix, _ := cmd.Flags().GetString("prefix")
	if !cmd.Flags().Changed("prefix") {
		prefix = viper.GetString("split.prefix")
	}

	outMonths, _ := cmd.Flags().GetStringSlice("out-months")
	manifest, _ := cmd.Flags().GetBool("manifest")

	cfg := types.SplitConfig{
		Mode:      types.SplitMode(mode),
		Prefix:    prefix,
		OutMonths: outMonths,
		Manifest:  manifest,
	}
	if !cfg.Mode.Valid() {
		return cfg, fmt.Errorf("invalid mode %q: must be month, week, title, or date_title", mode)
	}
	return cfg, nil
}

func init() {
	splitCmd.Flags().String("mode", string(types.ModeMonth), "grouping: month, week, title, or date_title")
	splitCmd.Flags().String("prefix", "conversations", "filename prefix for output files")
	splitCmd.Flags().StringSlice("out-months", nil, "bucket keys to exclude from output (e.g. 2024-01,2024-02)")
	splitCmd.Flags().Bool("manifest", false, "write a manifest.yaml describing the produced buckets")

	rootCmd.AddCommand(splitCmd)
}

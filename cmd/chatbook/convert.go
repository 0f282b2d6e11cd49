// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chatbook/internal/convert"
	"github.com/pdiddy/chatbook/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert conversation JSON exports to readable text",
	Long: `Convert renders conversation JSON into structured text: a titled
header followed by user/assistant exchanges with timestamps and model
information.

A file input converts to the given output file. A directory input is
mirrored under the output directory, converting every .json file to a
.txt file at the same relative path. Files that fail to convert are
logged and skipped; the batch continues.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.Run(args[0], args[1], ".json", ".txt", convert.File, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

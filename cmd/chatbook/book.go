// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/chatbook/internal/book"
	"github.com/pdiddy/chatbook/internal/pipeline"
)

var bookCmd = &cobra.Command{
	Use:   "book <input> <output>",
	Short: "Reformat converted conversation text into book style",
	Long: `Book parses the structured text produced by convert and re-renders
it as a flowing book: an uppercased title block, then timestamped
"You:" and "Assistant:" passages. System and tool blocks are parsed but
do not appear in book output.

A file input converts to the given output file. A directory input is
mirrored under the output directory, reformatting every .txt file at
the same relative path.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.Run(args[0], args[1], ".txt", ".txt", book.File, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(bookCmd)
}

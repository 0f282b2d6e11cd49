// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chatbook/internal/master"
	"github.com/pdiddy/chatbook/pkg/types"
)

var masterCmd = &cobra.Command{
	Use:   "master <input-dir> <output-file>",
	Short: "Combine book files into one chaptered master document",
	Long: `Master concatenates every book-formatted .txt file under the input
directory into a single document, ordered by the "YYYY-MM" date in each
file's parent directory name. A chapter header is inserted whenever the
month changes; files without a parseable date come first under an
"Unknown Date" chapter.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.MasterConfig{Banner: viper.GetString("master.banner")}
		return master.Assemble(args[0], args[1], cfg, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(masterCmd)
}

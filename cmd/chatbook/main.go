// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chatbook CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chatbook/internal/master"
	"github.com/pdiddy/chatbook/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the chatbook CLI.
var rootCmd = &cobra.Command{
	Use:   "chatbook",
	Short: "Turn conversation exports into readable text and books",
	Long: `chatbook converts exported conversation archives (JSON) into
human-readable text, re-renders that text as a flowing book, assembles
per-conversation books into one master document, and splits large exports
into smaller JSON files grouped by month, week, or title.

Each stage is a subcommand: convert, book, master, split, and index. The
stages compose through the filesystem; each reads one format and writes
another.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./chatbook.yaml or ~/.config/chatbook/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chatbook")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chatbook"))
		}
	}

	viper.SetEnvPrefix("CHATBOOK")
	viper.AutomaticEnv()

	viper.SetDefault("split.mode", string(types.ModeMonth))
	viper.SetDefault("split.prefix", "conversations")
	viper.SetDefault("master.banner", master.DefaultBanner)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

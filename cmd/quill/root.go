package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quill/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill is a live preview server for interactive stories",
	Long: `Quill loads a story and answers preview, choice and current commands as
line-delimited JSON on stdin/stdout, so editors can show passages as they are written.
Run without a subcommand it behaves like "quill serve".`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (logs go to stderr)")
	rootCmd.PersistentFlags().String("entry", "", "Passage to start on, overriding the story's initial_passage")
}

// optionsFrom collects the shared flags of cmd.
func optionsFrom(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	entry, _ := cmd.Flags().GetString("entry")
	return cli.Options{
		ConfigPath:   configPath,
		LogLevel:     logLevel,
		EntryPassage: entry,
	}
}

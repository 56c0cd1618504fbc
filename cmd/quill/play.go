package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quill/internal/cli"
	"github.com/aretw0/quill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <story>",
	Short: "Play the story interactively",
	Long:  `Starts the story on the terminal. Pick choices by number; type "quit" to leave.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		opts.State, _ = cmd.Flags().GetString("state")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		interactive := tui.IsTerminal(os.Stdout)
		if err := cli.Play(sigCtx, opts, args[0], os.Stdin, os.Stdout, tui.NewRenderer(os.Stdout), interactive); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			sigCtx.Cancel()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("state", "", "JSON object merged into the story state before playing")
}

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quill/internal/cli"
	"github.com/aretw0/quill/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <story> [passage]",
	Short: "Render one passage to the terminal",
	Long: `Renders the initial passage (or the given one) with its visible choices.
Markdown is formatted when stdout is a terminal.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		opts.State, _ = cmd.Flags().GetString("state")
		opts.JSON, _ = cmd.Flags().GetBool("json")

		var passage string
		if len(args) > 1 {
			passage = args[1]
		}

		renderer := tui.NewRenderer(os.Stdout)
		if opts.JSON {
			renderer = nil
		}
		if err := cli.Render(cmd.Context(), opts, args[0], passage, os.Stdout, renderer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("state", "", "JSON object merged into the story state before rendering")
	renderCmd.Flags().Bool("json", false, "Print the passage as a protocol JSON record")
}

package main

import (
	"fmt"
	"os"

	"github.com/aretw0/quill/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <story>",
	Short: "Export the story graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the passages and their choices.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		opts.Trail, _ = cmd.Flags().GetIntSlice("trail")

		if err := cli.Graph(cmd.Context(), opts, args[0], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().IntSlice("trail", nil, "Choice indexes to follow from the entry passage, highlighted on the graph")
}

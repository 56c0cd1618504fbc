package main

import (
	"os"

	"github.com/aretw0/quill/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the preview protocol on stdin/stdout",
	Long: `Reads the story document from the first input line, answers with {"status":"ready"}
and then processes one JSON command per line until "exit" or end of input.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFrom(cmd)
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics-addr")
		opts.MaxLineBytes, _ = cmd.Flags().GetInt("max-line-bytes")

		sigCtx := cli.NewSignalContext(cmd.Context())
		code := cli.Serve(sigCtx, opts, os.Stdin, os.Stdout)
		sigCtx.Cancel()
		os.Exit(code)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("metrics-addr", "", "Serve /metrics and /healthz on this address (e.g. 127.0.0.1:9090)")
	serveCmd.Flags().Int("max-line-bytes", 0, "Maximum size of one input line (default 16MiB)")

	// Make 'serve' the default if no command is provided
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.Run = serveCmd.Run
}

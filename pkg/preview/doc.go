/*
Package preview implements the preview server: a long-lived process that answers
passage navigation requests over line-delimited JSON.

The Server owns the process lifecycle. It reads the story document from the first
line, builds the single Engine of the process through an EngineFactory, emits the
ready signal and then hands every following line to the Dispatcher until an "exit"
command or the end of input.

# Failure Isolation

Every command produces exactly one result line (except "exit"). Engine failures and
panics are converted into error records at the narrowest boundary able to produce a
meaningful record, so a single bad command never stops the loop. Only failures of the
loop itself reach the outermost boundary, which reports a "Fatal error" record and
returns ExitFailure.

# Usage

	srv := preview.NewServer(quill.Factory(),
		preview.WithLogger(logger),
	)
	os.Exit(srv.Run(ctx, os.Stdin, os.Stdout))
*/
package preview

/*
Package quill is a live preview engine for interactive stories, built to sit behind an editor extension.

A story is a JSON document of passages. Each passage has markdown content with {expr} placeholders,
optional Lua statements run on entry, and choices guarded by Lua conditions. The engine keeps one
mutable session state per process; editors tweak it through state overlays while previewing.

# Concept

The preview protocol (package pkg/preview) reads the story from the first line of stdin, answers
{"status":"ready"} and then handles one JSON command per line ("preview", "choice", "current",
"exit"), writing exactly one JSON record per command to stdout. Logs go to stderr.

This package provides the reference engine consumed by the protocol through ports.EngineFactory.
Other engines can be plugged in by implementing ports.Engine.

# Usage

	package main

	import (
		"context"
		"os"

		"github.com/aretw0/quill"
		"github.com/aretw0/quill/pkg/preview"
	)

	func main() {
		srv := preview.NewServer(quill.Factory())
		os.Exit(srv.Run(context.Background(), os.Stdin, os.Stdout))
	}

The engine can also be driven directly (see ExampleNew) or played on a terminal with Runner.
*/
package quill

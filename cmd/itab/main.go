// Package main is the entry point for the iTab server and its maintenance
// commands. Configuration, logging and the command tree live in
// internal/cli.
package main

import (
	"context"
	"log/slog"
	"os"

	"itab/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("itab failed", "error", err)
		os.Exit(1)
	}
}

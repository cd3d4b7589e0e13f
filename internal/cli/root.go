// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli implements the itab command line: the API server plus
// one-shot maintenance commands that work on the same store.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"itab/internal/config"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// options is shared by all commands of one root.
type options struct {
	configFile string
	cfg        *config.Config
	logOut     io.Writer
}

// NewRootCommand builds the itab command tree. Without a subcommand the
// server is started.
func NewRootCommand() *cobra.Command {
	opts := &options{logOut: os.Stderr}

	rootCmd := &cobra.Command{
		Use:   "itab",
		Short: "iTab - new-tab dashboard server with WebDAV backup",
		Long: `itab serves the dashboard document (categories of bookmarked sites and
appearance settings) over a JSON API and keeps timestamped backups of it on
a WebDAV server, optionally mirrored to S3-compatible storage.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			setupLogging(opts.logOut, cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts.cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default: $"+config.FileEnv+")")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newBackupCmd(opts))
	rootCmd.AddCommand(newRestoreCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newWebDAVCmd(opts))
	rootCmd.AddCommand(newMirrorCmd(opts))

	return rootCmd
}

// setupLogging installs the default logger: text in development, JSON
// otherwise, unless LOG_FORMAT says so.
func setupLogging(w io.Writer, cfg *config.Config) {
	hopts := &slog.HandlerOptions{Level: cfg.Level()}
	var h slog.Handler = slog.NewTextHandler(w, hopts)
	if cfg.JSONLogs() {
		h = slog.NewJSONHandler(w, hopts)
	}
	slog.SetDefault(slog.New(h))
}

// withApp runs fn with a connected app and closes it afterwards.
func withApp(opts *options, fn func(a *app) error) error {
	a, err := newApp(opts.cfg)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

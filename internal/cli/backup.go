// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"itab/internal/davsync"
)

func newBackupCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot to the configured WebDAV server now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				return report(cmd.OutOrStdout(), a.sync.Backup(cmd.Context()))
			})
		},
	}
}

func newRestoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [name]",
		Short: "Replace the dashboard with a backup from the WebDAV server",
		Long: `Downloads a backup and makes it the current dashboard. Without a name
the newest itab-backup-*.json in the collection is used. The local WebDAV
settings are kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return withApp(opts, func(a *app) error {
				return report(cmd.OutOrStdout(), a.sync.Restore(cmd.Context(), name))
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the dashboard, without WebDAV settings, as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				doc, err := a.board.Export(cmd.Context())
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				data = append(data, '\n')

				if len(args) == 0 || args[0] == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(args[0], data, 0o600); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", args[0])
				return nil
			})
		},
	}
}

// report prints a sync outcome and turns a failure into an error so the
// process exits non-zero.
func report(w io.Writer, res davsync.Result) error {
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Fprintln(w, res.Message)
	if res.File != "" {
		fmt.Fprintf(w, "file: %s\n", res.File)
	}
	return nil
}

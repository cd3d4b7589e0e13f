// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"errors"
	"fmt"
	"path"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var errNoMirror = errors.New("s3 mirror not configured, set S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")

func newMirrorCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect and restore the S3 copies of WebDAV backups",
	}
	cmd.AddCommand(newMirrorListCmd(opts))
	cmd.AddCommand(newMirrorRestoreCmd(opts))
	cmd.AddCommand(newMirrorURLCmd(opts))
	return cmd
}

// withMirror is withApp for commands that need the S3 client.
func withMirror(opts *options, fn func(a *app) error) error {
	return withApp(opts, func(a *app) error {
		if a.mirror == nil {
			return errNoMirror
		}
		return fn(a)
	})
}

func newMirrorListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the mirrored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMirror(opts, func(a *app) error {
				objects, err := a.mirror.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
				for _, o := range objects {
					fmt.Fprintf(tw, "%s\t%d\t%s\n", path.Base(o.Key), o.Size, o.LastModified.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

func newMirrorRestoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: "Replace the dashboard with a mirrored snapshot",
		Long: `Downloads a snapshot from S3 and makes it the current dashboard, the same
way an API restore does. The local WebDAV settings are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMirror(opts, func(a *app) error {
				data, err := a.mirror.Download(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				prev, err := a.board.Restore(cmd.Context(), data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "restored %s (replaced %d categories)\n", args[0], len(prev.Categories))
				return nil
			})
		},
	}
}

func newMirrorURLCmd(opts *options) *cobra.Command {
	var expires time.Duration

	cmd := &cobra.Command{
		Use:   "url <name>",
		Short: "Print a temporary download link for a mirrored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if expires <= 0 || expires > 7*24*time.Hour {
				return fmt.Errorf("--expires must be between 1s and 168h")
			}
			return withMirror(opts, func(a *app) error {
				u, err := a.mirror.PresignedURL(cmd.Context(), args[0], expires)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), u)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&expires, "expires", time.Hour, "how long the link stays valid")
	return cmd
}

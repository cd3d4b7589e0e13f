// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"itab/internal/davsync"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

func newWebDAVCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webdav",
		Short: "Manage the WebDAV backup target",
	}
	cmd.AddCommand(newWebDAVConfigureCmd(opts))
	cmd.AddCommand(newWebDAVTestCmd(opts))
	cmd.AddCommand(newWebDAVListCmd(opts))
	return cmd
}

func newWebDAVConfigureCmd(opts *options) *cobra.Command {
	var in davsync.ConfigInput

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store the WebDAV server, credentials and backup interval",
		Long: `Stores the WebDAV settings. The password is read from the terminal
without echo, or as the first line of stdin when it is not a terminal.
An empty password keeps the stored one when the URL and username are
unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			in.Password = pw

			return withApp(opts, func(a *app) error {
				cfg, err := a.sync.Configure(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "configured %s%s as %s, backups: %s\n",
					strings.TrimSuffix(cfg.URL, "/"), cfg.Path, cfg.Username, interval(cfg.Interval))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.URL, "url", "", "WebDAV server URL (https)")
	cmd.Flags().StringVar(&in.Username, "username", "", "WebDAV username")
	cmd.Flags().StringVar(&in.Path, "path", davsync.DefaultPath, "collection for backups")
	cmd.Flags().IntVar(&in.Interval, "interval", 0, "minutes between automatic backups, 0 disables")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newWebDAVTestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the stored WebDAV settings work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				return report(cmd.OutOrStdout(), a.sync.Test(cmd.Context(), nil))
			})
		},
	}
}

func newWebDAVListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the backups on the WebDAV server, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				entries, err := a.sync.ListBackups(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
				for _, e := range entries {
					mod := "-"
					if !e.LastModified.IsZero() {
						mod = e.LastModified.Local().Format(time.DateTime)
					}
					fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Name, e.ContentLength, mod)
				}
				return tw.Flush()
			})
		},
	}
}

// promptPassword reads the password without echo from a terminal, or the
// first line of in otherwise.
func promptPassword(in io.Reader, w io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		fmt.Fprint(w, "WebDAV password (empty keeps the stored one): ")
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func interval(minutes int) string {
	if minutes <= 0 {
		return "manual only"
	}
	return "every " + (time.Duration(minutes) * time.Minute).String()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package davsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"itab/internal/models"
	"itab/internal/store"
	"itab/internal/webdav"
)

// LegacyFile is the single file older clients synced to.
const LegacyFile = "itab-config.json"

// Backup uploads a snapshot of the document, without its WebDAV config, to
// the configured collection and records the time on success.
func (o *Orchestrator) Backup(ctx context.Context) Result {
	doc, err := o.store.Load(ctx)
	if err != nil {
		return o.reject(err)
	}
	cfg, cred, err := o.resolveDoc(doc, nil)
	if err != nil {
		return o.reject(err)
	}

	o.setState(StateBackingUp, "")

	// The collection usually exists already; any failure here shows up
	// again on the PUT.
	if _, err := o.client.Mkcol(ctx, webdav.Join(cfg.URL, cfg.Path, ""), cred); err != nil {
		slog.Debug("mkcol before backup failed", "component", "davsync", "error", err)
	}

	data, err := json.MarshalIndent(doc.Export(), "", "  ")
	if err != nil {
		return o.fail("encode snapshot: "+err.Error(), 0)
	}

	now := o.now().UTC()
	name := models.BackupName(now)
	resp, err := o.client.Put(ctx, webdav.Join(cfg.URL, cfg.Path, name), cred, data)
	if err != nil {
		return o.fail("backup failed: "+err.Error(), 0)
	}
	if !resp.Success {
		return o.fail(remoteMessage("backup failed", resp.Status), resp.Status)
	}

	_, err = o.store.Update(ctx, func(d *models.Document) error {
		if d.Settings.WebDAV == nil {
			return nil
		}
		d.Settings.WebDAV.LastBackup = &now
		return o.ensureEncrypted(d.Settings.WebDAV)
	})
	if err != nil {
		return o.fail("backup uploaded but not recorded: "+err.Error(), resp.Status)
	}

	if o.mirror != nil {
		if err := o.mirror.Upload(ctx, name, data); err != nil {
			slog.Warn("mirror upload failed", "component", "davsync", "file", name, "error", err)
		}
	}

	o.setState(StateBackedUp, "")
	return Result{Success: true, Message: "backup uploaded", Status: resp.Status, File: name, Time: &now}
}

// Restore downloads a snapshot and makes it the current document. An empty
// name picks the newest backup in the collection, falling back to the
// legacy single file. The local WebDAV config is kept.
func (o *Orchestrator) Restore(ctx context.Context, name string) Result {
	cfg, cred, err := o.resolve(ctx, nil)
	if err != nil {
		return o.reject(err)
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return o.reject(fmt.Errorf("%w: %q", ErrInvalidName, name))
	}

	o.setState(StateRestoring, "")

	if name == "" {
		entries, res := o.list(ctx, cfg, cred)
		if res != nil {
			return *res
		}
		name = LegacyFile
		if len(entries) > 0 {
			name = entries[len(entries)-1].Name
		}
	}

	resp, err := o.client.Get(ctx, webdav.Join(cfg.URL, cfg.Path, name), cred)
	if err != nil {
		return o.fail("restore failed: "+err.Error(), 0)
	}
	if resp.Status == http.StatusNotFound {
		return o.fail(fmt.Sprintf("restore failed: %s not found on remote", name), resp.Status)
	}
	if !resp.Success {
		return o.fail(remoteMessage("restore failed", resp.Status), resp.Status)
	}

	restored, err := ParseSnapshot(resp.Body)
	if err != nil {
		return o.fail("restore failed: "+err.Error(), resp.Status)
	}

	now := o.now().UTC()
	_, err = o.store.Update(ctx, func(d *models.Document) error {
		local := d.Settings.WebDAV
		*d = *restored
		d.Settings.WebDAV = local
		if local != nil {
			local.LastSync = &now
			return o.ensureEncrypted(local)
		}
		return nil
	})
	if err != nil {
		return o.fail("restore failed: "+err.Error(), resp.Status)
	}

	o.setState(StateRestored, "")
	return Result{Success: true, Message: "restored " + name, Status: resp.Status, File: name, Time: &now}
}

// ParseSnapshot accepts a downloaded document only if it is a JSON object
// with a categories array. Any WebDAV config inside it is dropped.
func ParseSnapshot(body []byte) (*models.Document, error) {
	doc, err := store.ParseSnapshot(body)
	if err != nil {
		return nil, err
	}
	doc.Settings.WebDAV = nil
	return doc, nil
}

// ListBackups returns the backup files in the collection, oldest first.
func (o *Orchestrator) ListBackups(ctx context.Context) ([]webdav.Entry, error) {
	cfg, cred, err := o.resolve(ctx, nil)
	if err != nil {
		return nil, err
	}
	entries, res := o.list(ctx, cfg, cred)
	if res != nil {
		return nil, errors.New(res.Message)
	}
	return entries, nil
}

func (o *Orchestrator) list(ctx context.Context, cfg *models.WebDAVConfig, cred webdav.Credentials) ([]webdav.Entry, *Result) {
	resp, entries, err := o.client.Propfind(ctx, webdav.Join(cfg.URL, cfg.Path, ""), cred, "1")
	if err != nil {
		r := o.fail("list failed: "+err.Error(), 0)
		return nil, &r
	}
	if resp.Status != http.StatusMultiStatus {
		r := o.fail(remoteMessage("list failed", resp.Status), resp.Status)
		return nil, &r
	}

	out := make([]webdav.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsCollection && models.IsBackupName(e.Name) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

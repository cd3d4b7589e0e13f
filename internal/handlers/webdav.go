// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"itab/internal/davsync"
	"itab/internal/webdav"
)

// writeResult replies with a sync outcome. Rejected input or config is a
// client error; failures on the remote side are a bad gateway.
func writeResult(w http.ResponseWriter, res davsync.Result) {
	status := http.StatusOK
	switch {
	case res.Success:
	case davsync.IsInvalid(res.Err):
		status = http.StatusBadRequest
	default:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, res)
}

// WebDAVStatus handles GET /api/webdav.
func (a *API) WebDAVStatus(w http.ResponseWriter, r *http.Request) {
	st, err := a.sync.Status(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// WebDAVConfigure handles PUT /api/webdav. A blank password keeps the
// stored one when URL and username are unchanged.
func (a *API) WebDAVConfigure(w http.ResponseWriter, r *http.Request) {
	var in davsync.ConfigInput
	if err := decode(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	cfg, err := a.sync.Configure(r.Context(), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// WebDAVTest handles POST /api/webdav/test. Without a body the stored
// config is tested.
func (a *API) WebDAVTest(w http.ResponseWriter, r *http.Request) {
	var in davsync.ConfigInput
	ok, err := decodeOptional(w, r, &in)
	if err != nil {
		fail(w, r, err)
		return
	}
	var input *davsync.ConfigInput
	if ok {
		input = &in
	}
	writeResult(w, a.sync.Test(r.Context(), input))
}

// WebDAVBackup handles POST /api/webdav/backup.
func (a *API) WebDAVBackup(w http.ResponseWriter, r *http.Request) {
	writeResult(w, a.sync.Backup(r.Context()))
}

type webdavRestoreRequest struct {
	Name string `json:"name"`
}

// WebDAVRestore handles POST /api/webdav/restore. Without a name the
// newest backup is restored.
func (a *API) WebDAVRestore(w http.ResponseWriter, r *http.Request) {
	var req webdavRestoreRequest
	if _, err := decodeOptional(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	writeResult(w, a.sync.Restore(r.Context(), req.Name))
}

type backupsResponse struct {
	Backups []webdav.Entry `json:"backups"`
}

// WebDAVBackups handles GET /api/webdav/backups.
func (a *API) WebDAVBackups(w http.ResponseWriter, r *http.Request) {
	entries, err := a.sync.ListBackups(r.Context())
	if err != nil {
		writeResult(w, davsync.Result{Message: err.Error(), Err: err})
		return
	}
	if entries == nil {
		entries = []webdav.Entry{}
	}
	writeJSON(w, http.StatusOK, backupsResponse{Backups: entries})
}

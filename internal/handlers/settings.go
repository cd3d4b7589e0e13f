// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"itab/internal/board"
	"itab/internal/favicon"
	"itab/internal/models"
)

// SettingsUpdate handles PUT /api/settings and returns the merged settings.
func (a *API) SettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var p board.SettingsPatch
	if err := decode(w, r, &p); err != nil {
		fail(w, r, err)
		return
	}
	settings, err := a.board.UpdateSettings(r.Context(), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Import handles POST /api/import with a full document as body.
func (a *API) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := a.board.Import(r.Context(), raw); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "import complete"})
}

// Export handles GET /api/export.
func (a *API) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := a.board.Export(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// BackupDownload handles GET /api/backup: the export snapshot as a
// timestamped attachment.
func (a *API) BackupDownload(w http.ResponseWriter, r *http.Request) {
	doc, err := a.board.Export(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fail(w, r, err)
		return
	}
	name := models.BackupName(time.Now())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type restoreResponse struct {
	Success        bool                  `json:"success"`
	Message        string                `json:"message"`
	PreviousBackup *board.PreviousBackup `json:"previousBackup"`
}

// Restore handles POST /api/restore. The reply carries the replaced
// document so the client can undo.
func (a *API) Restore(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	prev, err := a.board.Restore(r.Context(), raw)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restoreResponse{Success: true, Message: "restore complete", PreviousBackup: prev})
}

// Favicon handles GET /api/favicon?url=.
func (a *API) Favicon(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	c, err := favicon.Lookup(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

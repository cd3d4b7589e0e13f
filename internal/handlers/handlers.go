// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the iTab API.
// Handlers are grouped by concern (dashboard, settings, webdav) and receive
// their dependencies through the API struct.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"itab/internal/board"
	"itab/internal/davsync"
	"itab/internal/middleware"
)

// maxBodySize bounds request bodies. A full import carries the whole
// document, so this is larger than a single edit needs.
const maxBodySize = 5 << 20

// API groups all HTTP handlers and their dependencies.
type API struct {
	board *board.Board
	sync  *davsync.Orchestrator
}

// New creates the handler group.
func New(b *board.Board, sync *davsync.Orchestrator) *API {
	return &API{board: b, sync: sync}
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

// successResponse acknowledges operations that return no resource.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// fail maps a domain error to a status code. Anything unrecognized is a
// persistence failure and is logged, since its message is not shown.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, board.ErrValidation), errors.Is(err, davsync.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, board.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromCtx(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// readBody returns the raw request body, bounded by maxBodySize.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: request body: %v", board.ErrValidation, err)
	}
	return data, nil
}

// decode parses a JSON request body into v. Malformed JSON is a
// validation error.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", board.ErrValidation)
	}
	return nil
}

// decodeOptional is like decode but accepts an empty body, reporting
// whether anything was read.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) (bool, error) {
	data, err := readBody(w, r)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: malformed JSON body", board.ErrValidation)
	}
	return true, nil
}

// siteIndex reads the {index} URL parameter. Anything that is not a
// non-negative integer cannot address a site.
func siteIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: site %q", board.ErrNotFound, raw)
	}
	return i, nil
}

// Health reports liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the dashboard document. A Backend moves raw JSON
// bytes to and from durable storage; Store layers decoding, corruption
// tolerance and serialized read-modify-write cycles on top of it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"itab/internal/models"
)

// ErrNoData is returned by a Backend when nothing has been stored yet.
var ErrNoData = errors.New("store: no data")

// Backend is a durable home for the serialized document.
// Write must replace the previous value atomically.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Name() string
}

// Store wraps a Backend with the document-level contract.
// Updates from this process are serialized; writers in other processes
// are not coordinated and the last write wins.
type Store struct {
	backend Backend
	mu      sync.Mutex
}

// New returns a Store on top of the given backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the name of the underlying backend.
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Load returns the stored document. Missing or undecodable data yields a
// fresh empty document; only backend failures are reported as errors.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	raw, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNoData) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store load (%s): %w", s.backend.Name(), err)
	}

	doc, err := Decode(raw)
	if err != nil {
		slog.Warn("stored document is corrupt, starting from an empty one",
			"backend", s.backend.Name(),
			"error", err,
		)
		return models.NewDocument(), nil
	}
	return doc, nil
}

// Save overwrites the stored document.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

func (s *Store) save(ctx context.Context, doc *models.Document) error {
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store encode: %w", err)
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("store save (%s): %w", s.backend.Name(), err)
	}
	return nil
}

// Update loads the document, applies fn and saves the result. Nothing is
// written when fn returns an error. The updated document is returned.
func (s *Store) Update(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(doc); err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"itab/internal/models"
)

// Seed writes a starter document when the backend is empty. Existing data
// is never touched, so it is safe to call on every start.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.backend.Read(ctx)
	if err == nil {
		slog.Info("store already seeded, skipping", "backend", s.backend.Name())
		return nil
	}
	if !errors.Is(err, ErrNoData) {
		return fmt.Errorf("seed check: %w", err)
	}

	if err := s.save(ctx, StarterDocument()); err != nil {
		return fmt.Errorf("seed write: %w", err)
	}
	slog.Info("store seeded with starter categories", "backend", s.backend.Name())
	return nil
}

// StarterDocument returns the document a fresh development install starts
// with.
func StarterDocument() *models.Document {
	doc := models.NewDocument()
	doc.Categories = []models.Category{
		{
			ID:   models.NewCategoryID(),
			Name: "Dev",
			Icon: "💻",
			Sites: []models.Site{
				{Name: "GitHub", URL: "https://github.com", Icon: models.DefaultSiteIcon, Description: "Code hosting"},
				{Name: "Go Packages", URL: "https://pkg.go.dev", Icon: models.DefaultSiteIcon, Description: "Go documentation"},
			},
		},
		{
			ID:   models.NewCategoryID(),
			Name: "News",
			Icon: "📰",
			Sites: []models.Site{
				{Name: "Hacker News", URL: "https://news.ycombinator.com", Icon: models.DefaultSiteIcon},
			},
		},
	}
	doc.Settings.LastCategory = doc.Categories[0].ID
	return doc
}

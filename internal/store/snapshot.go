// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"itab/internal/models"
)

// ErrInvalidSnapshot is wrapped by ParseSnapshot for rejected input.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

type snapshot struct {
	Settings   models.Settings `json:"settings"`
	Categories json.RawMessage `json:"categories"`
}

type snapshotCategory struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Icon  string         `json:"icon"`
	Sites []*models.Site `json:"sites"`
}

// ParseSnapshot decodes a document that came from outside: an import, an
// uploaded backup or a remote copy. It must be a JSON object with a
// categories array.
func ParseSnapshot(raw []byte) (*models.Document, error) {
	return parseDocument(raw, true)
}

// Decode parses a stored document. Unlike ParseSnapshot it accepts a
// missing or null categories field as empty; any other non-array value is
// rejected.
func Decode(raw []byte) (*models.Document, error) {
	return parseDocument(raw, false)
}

// parseDocument drops null categories and null sites, and gives a fresh id
// to every category whose id is empty or already taken.
func parseDocument(raw []byte, requireCategories bool) (*models.Document, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidSnapshot, err)
	}
	cats := bytes.TrimSpace(snap.Categories)
	if !requireCategories && (len(cats) == 0 || bytes.Equal(cats, []byte("null"))) {
		cats = []byte("[]")
	}
	if len(cats) == 0 || cats[0] != '[' {
		return nil, fmt.Errorf("%w: categories must be an array", ErrInvalidSnapshot)
	}

	var parsed []*snapshotCategory
	if err := json.Unmarshal(cats, &parsed); err != nil {
		return nil, fmt.Errorf("%w: categories: %v", ErrInvalidSnapshot, err)
	}

	doc := &models.Document{
		Settings:   snap.Settings,
		Categories: make([]models.Category, 0, len(parsed)),
	}
	seen := make(map[string]bool, len(parsed))
	for _, c := range parsed {
		if c == nil {
			continue
		}
		id := c.ID
		if id == "" || seen[id] {
			id = models.NewCategoryID()
		}
		seen[id] = true

		cat := models.Category{ID: id, Name: c.Name, Icon: c.Icon, Sites: make([]models.Site, 0, len(c.Sites))}
		for _, s := range c.Sites {
			if s != nil {
				cat.Sites = append(cat.Sites, *s)
			}
		}
		doc.Categories = append(doc.Categories, cat)
	}
	doc.Normalize()
	return doc, nil
}

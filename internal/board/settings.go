// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"itab/internal/models"
	"itab/internal/store"
)

// SettingsPatch carries the appearance settings to change; nil means
// unchanged. The WebDAV config is managed by davsync and cannot be set
// here.
type SettingsPatch struct {
	Background       *string `json:"background"`
	BgColor          *string `json:"bgColor"`
	IconSize         *string `json:"iconSize"`
	LogoIcon         *string `json:"logoIcon"`
	LogoText         *string `json:"logoText"`
	TextColor        *string `json:"textColor"`
	SidebarCollapsed *bool   `json:"sidebarCollapsed"`
	LastCategory     *string `json:"lastCategory"`
}

// UpdateSettings applies p and returns the resulting settings without the
// WebDAV password.
func (b *Board) UpdateSettings(ctx context.Context, p SettingsPatch) (*models.Settings, error) {
	if p.IconSize != nil && *p.IconSize != models.IconSizeNormal && *p.IconSize != models.IconSizeSmall {
		return nil, fmt.Errorf("%w: iconSize must be %q or %q", ErrValidation, models.IconSizeNormal, models.IconSizeSmall)
	}

	doc, err := b.store.Update(ctx, func(doc *models.Document) error {
		s := &doc.Settings
		setString(&s.Background, p.Background)
		setString(&s.BgColor, p.BgColor)
		setString(&s.IconSize, p.IconSize)
		setString(&s.LogoIcon, p.LogoIcon)
		setString(&s.LogoText, p.LogoText)
		setString(&s.TextColor, p.TextColor)
		setString(&s.LastCategory, p.LastCategory)
		if p.SidebarCollapsed != nil {
			s.SidebarCollapsed = *p.SidebarCollapsed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := doc.Settings
	if out.WebDAV != nil {
		out.WebDAV = out.WebDAV.Redacted()
	}
	return &out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Export returns a snapshot of the document without the WebDAV config.
func (b *Board) Export(ctx context.Context) (*models.Document, error) {
	doc, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Export(), nil
}

// Import replaces categories and settings with the ones in raw. The local
// WebDAV config is kept; one inside raw is ignored.
func (b *Board) Import(ctx context.Context, raw []byte) (*models.Document, error) {
	incoming, err := parse(raw)
	if err != nil {
		return nil, err
	}
	doc, err := b.store.Update(ctx, func(doc *models.Document) error {
		replace(doc, incoming)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Export(), nil
}

// PreviousBackup is the document as it was before a restore, stamped with
// the time it was taken.
type PreviousBackup struct {
	*models.Document
	BackupTime time.Time `json:"_backupTime"`
}

// Restore replaces the document like Import and returns what it replaced,
// so the caller can undo the restore.
func (b *Board) Restore(ctx context.Context, raw []byte) (*PreviousBackup, error) {
	incoming, err := parse(raw)
	if err != nil {
		return nil, err
	}
	var prev *models.Document
	_, err = b.store.Update(ctx, func(doc *models.Document) error {
		prev = doc.Export()
		replace(doc, incoming)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &PreviousBackup{Document: prev, BackupTime: b.now().UTC()}, nil
}

func parse(raw []byte) (*models.Document, error) {
	doc, err := store.ParseSnapshot(raw)
	if errors.Is(err, store.ErrInvalidSnapshot) {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return doc, err
}

func replace(doc, incoming *models.Document) {
	local := doc.Settings.WebDAV
	doc.Categories = incoming.Categories
	doc.Settings = incoming.Settings
	doc.Settings.WebDAV = local
}

// Hit is one search result.
type Hit struct {
	CategoryID   string      `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
	Index        int         `json:"index"`
	Site         models.Site `json:"site"`
}

// Search returns the sites whose name, url or description contain q,
// ignoring case, in display order. An empty query matches nothing.
func (b *Board) Search(ctx context.Context, q string) ([]Hit, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	hits := []Hit{}
	if q == "" {
		return hits, nil
	}
	doc, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range doc.Categories {
		for i, s := range c.Sites {
			if strings.Contains(strings.ToLower(s.Name), q) ||
				strings.Contains(strings.ToLower(s.URL), q) ||
				strings.Contains(strings.ToLower(s.Description), q) {
				hits = append(hits, Hit{CategoryID: c.ID, CategoryName: c.Name, Index: i, Site: s})
			}
		}
	}
	return hits, nil
}

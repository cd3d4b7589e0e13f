// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package board implements the validated mutations of the dashboard:
// categories, the sites inside them, appearance settings, import, export
// and restore. Every mutation is a read-modify-write through the store and
// is durable when the call returns.
//
// Sites have no id of their own. They are addressed by category id and
// position, so a structural change to a category invalidates indices a
// client captured earlier.
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

var (
	// ErrValidation marks input the caller must fix.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown category or an out-of-range site index.
	ErrNotFound = errors.New("not found")
)

// Board is the CRUD entry point.
type Board struct {
	store *store.Store
	now   func() time.Time
}

// New returns a Board over st.
func New(st *store.Store) *Board {
	return &Board{store: st, now: time.Now}
}

// Document returns the current document with the WebDAV password removed.
func (b *Board) Document(ctx context.Context) (*models.Document, error) {
	doc, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.Settings.WebDAV != nil {
		doc.Settings.WebDAV = doc.Settings.WebDAV.Redacted()
	}
	return doc, nil
}

// CategoryInput carries the fields of a new category.
type CategoryInput struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CategoryPatch carries the fields to change; nil means unchanged.
type CategoryPatch struct {
	Name *string `json:"name"`
	Icon *string `json:"icon"`
}

// CreateCategory appends a new, empty category.
func (b *Board) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	cat := models.Category{
		ID:    models.NewCategoryID(),
		Name:  name,
		Icon:  orDefault(in.Icon, models.DefaultCategoryIcon),
		Sites: []models.Site{},
	}
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		doc.Categories = append(doc.Categories, cat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// UpdateCategory changes the provided fields of a category.
func (b *Board) UpdateCategory(ctx context.Context, id string, p CategoryPatch) (*models.Category, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	var out models.Category
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		cat := doc.Category(id)
		if cat == nil {
			return categoryNotFound(id)
		}
		if p.Name != nil {
			cat.Name = strings.TrimSpace(*p.Name)
		}
		if p.Icon != nil {
			cat.Icon = orDefault(*p.Icon, models.DefaultCategoryIcon)
		}
		out = cloneCategory(*cat)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category together with its sites.
func (b *Board) DeleteCategory(ctx context.Context, id string) error {
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		i := doc.CategoryIndex(id)
		if i < 0 {
			return categoryNotFound(id)
		}
		doc.Categories = append(doc.Categories[:i], doc.Categories[i+1:]...)
		if doc.Settings.LastCategory == id {
			doc.Settings.LastCategory = ""
		}
		return nil
	})
	return err
}

// ReorderCategories puts the named categories first, in the given order,
// followed by the ones not named in their current order. Unknown ids are
// ignored and repeated ids count once.
func (b *Board) ReorderCategories(ctx context.Context, ids []string) ([]models.Category, error) {
	doc, err := b.store.Update(ctx, func(doc *models.Document) error {
		pos := make(map[string]int, len(doc.Categories))
		for i, c := range doc.Categories {
			pos[c.ID] = i
		}
		order := make([]int, 0, len(ids))
		for _, id := range ids {
			if i, ok := pos[id]; ok {
				order = append(order, i)
			}
		}
		doc.Categories = permute(doc.Categories, order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// permute returns items with the positions in order first (duplicates
// collapse) and every other item after them in original order.
func permute[T any](items []T, order []int) []T {
	out := make([]T, 0, len(items))
	used := make([]bool, len(items))
	for _, i := range order {
		if i < 0 || i >= len(items) || used[i] {
			continue
		}
		used[i] = true
		out = append(out, items[i])
	}
	for i, it := range items {
		if !used[i] {
			out = append(out, it)
		}
	}
	return out
}

func categoryNotFound(id string) error {
	return fmt.Errorf("%w: category %q", ErrNotFound, id)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func cloneCategory(c models.Category) models.Category {
	c.Sites = append([]models.Site{}, c.Sites...)
	return c
}

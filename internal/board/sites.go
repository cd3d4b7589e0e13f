// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package board

import (
	"context"
	"fmt"
	"strings"

	"itab/internal/models"
)

// SiteInput carries the fields of a new site.
type SiteInput struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// SitePatch carries the fields to change; nil means unchanged.
type SitePatch struct {
	Name        *string `json:"name"`
	URL         *string `json:"url"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
}

// CreateSite appends a site to a category.
func (b *Board) CreateSite(ctx context.Context, categoryID string, in SiteInput) (*models.Site, error) {
	site := models.Site{
		Name:        strings.TrimSpace(in.Name),
		URL:         strings.TrimSpace(in.URL),
		Icon:        orDefault(in.Icon, models.DefaultSiteIcon),
		Description: in.Description,
	}
	if site.Name == "" || site.URL == "" {
		return nil, fmt.Errorf("%w: site name and url are required", ErrValidation)
	}
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		cat := doc.Category(categoryID)
		if cat == nil {
			return categoryNotFound(categoryID)
		}
		cat.Sites = append(cat.Sites, site)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// UpdateSite changes the provided fields of the site at index.
func (b *Board) UpdateSite(ctx context.Context, categoryID string, index int, p SitePatch) (*models.Site, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, fmt.Errorf("%w: site name must not be empty", ErrValidation)
	}
	if p.URL != nil && strings.TrimSpace(*p.URL) == "" {
		return nil, fmt.Errorf("%w: site url must not be empty", ErrValidation)
	}
	var out models.Site
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		site, err := siteAt(doc, categoryID, index)
		if err != nil {
			return err
		}
		if p.Name != nil {
			site.Name = strings.TrimSpace(*p.Name)
		}
		if p.URL != nil {
			site.URL = strings.TrimSpace(*p.URL)
		}
		if p.Icon != nil {
			site.Icon = orDefault(*p.Icon, models.DefaultSiteIcon)
		}
		if p.Description != nil {
			site.Description = *p.Description
		}
		out = *site
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSite removes the site at index.
func (b *Board) DeleteSite(ctx context.Context, categoryID string, index int) error {
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		if _, err := siteAt(doc, categoryID, index); err != nil {
			return err
		}
		cat := doc.Category(categoryID)
		cat.Sites = append(cat.Sites[:index], cat.Sites[index+1:]...)
		return nil
	})
	return err
}

// MoveSite removes the site at index from one category and appends it to
// another. Both categories must exist.
func (b *Board) MoveSite(ctx context.Context, fromID string, index int, toID string) (*models.Category, error) {
	var out models.Category
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		site, err := siteAt(doc, fromID, index)
		if err != nil {
			return err
		}
		if doc.Category(toID) == nil {
			return categoryNotFound(toID)
		}
		moved := *site
		from := doc.Category(fromID)
		from.Sites = append(from.Sites[:index], from.Sites[index+1:]...)
		to := doc.Category(toID)
		to.Sites = append(to.Sites, moved)
		out = cloneCategory(*to)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReorderSites puts the sites at the given indices first, in that order,
// followed by the others in their current order. Out-of-range indices are
// ignored and repeated ones count once.
func (b *Board) ReorderSites(ctx context.Context, categoryID string, indices []int) ([]models.Site, error) {
	var out []models.Site
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		cat := doc.Category(categoryID)
		if cat == nil {
			return categoryNotFound(categoryID)
		}
		cat.Sites = permute(cat.Sites, indices)
		out = append([]models.Site{}, cat.Sites...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceSites swaps the whole site list of a category for sites, taken
// as is. Callers are responsible for completeness.
func (b *Board) ReplaceSites(ctx context.Context, categoryID string, sites []*models.Site) ([]models.Site, error) {
	list := make([]models.Site, 0, len(sites))
	for i, s := range sites {
		if s == nil {
			return nil, fmt.Errorf("%w: site %d is null", ErrValidation, i)
		}
		list = append(list, *s)
	}
	_, err := b.store.Update(ctx, func(doc *models.Document) error {
		cat := doc.Category(categoryID)
		if cat == nil {
			return categoryNotFound(categoryID)
		}
		cat.Sites = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func siteAt(doc *models.Document, categoryID string, index int) (*models.Site, error) {
	cat := doc.Category(categoryID)
	if cat == nil {
		return nil, categoryNotFound(categoryID)
	}
	if index < 0 || index >= len(cat.Sites) {
		return nil, fmt.Errorf("%w: site %d in category %q", ErrNotFound, index, categoryID)
	}
	return &cat.Sites[index], nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the persisted dashboard document: settings,
// categories and the sites inside them. The whole document is stored as a
// single JSON blob and always read and written as a unit.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Icon sizes accepted by the grid renderer.
const (
	IconSizeNormal = "normal"
	IconSizeSmall  = "small"
)

// Defaults applied when a document is created or a field is left empty.
const (
	DefaultCategoryIcon = "📁"
	DefaultSiteIcon     = "🌐"
	DefaultLogoIcon     = "🚀"
	DefaultLogoText     = "iTab"
	DefaultTextColor    = "#ffffff"
)

// Document is the single root structure holding everything the dashboard
// shows. Category order is the display order.
type Document struct {
	Settings   Settings   `json:"settings"`
	Categories []Category `json:"categories"`
}

// Settings holds the appearance settings and the optional WebDAV config.
type Settings struct {
	Background       string        `json:"background"`
	BgColor          string        `json:"bgColor,omitempty"`
	IconSize         string        `json:"iconSize"`
	LogoIcon         string        `json:"logoIcon,omitempty"`
	LogoText         string        `json:"logoText,omitempty"`
	TextColor        string        `json:"textColor,omitempty"`
	SidebarCollapsed bool          `json:"sidebarCollapsed"`
	LastCategory     string        `json:"lastCategory,omitempty"`
	WebDAV           *WebDAVConfig `json:"webdav,omitempty"`
}

// Category is a named, ordered group of sites.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Sites []Site `json:"sites"`
}

// Site is one bookmark. It has no identity of its own; callers address it
// by (category id, position).
type Site struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// WebDAVConfig describes the remote collection used for backups.
// Password is ciphertext whenever Encrypted is true.
type WebDAVConfig struct {
	URL        string     `json:"url"`
	Username   string     `json:"username"`
	Password   string     `json:"password,omitempty"`
	Path       string     `json:"path"`
	Interval   int        `json:"interval"`
	LastBackup *time.Time `json:"lastBackup,omitempty"`
	LastSync   *time.Time `json:"lastSync,omitempty"`
	Encrypted  bool       `json:"_encrypted,omitempty"`
}

// DefaultSettings returns the settings of a freshly created document.
func DefaultSettings() Settings {
	return Settings{
		IconSize:  IconSizeNormal,
		LogoIcon:  DefaultLogoIcon,
		LogoText:  DefaultLogoText,
		TextColor: DefaultTextColor,
	}
}

// NewDocument returns an empty document with default settings.
func NewDocument() *Document {
	return &Document{
		Settings:   DefaultSettings(),
		Categories: []Category{},
	}
}

// Normalize replaces nil slices with empty ones so the JSON form always
// carries arrays, and fills in an icon size when none is set.
func (d *Document) Normalize() {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	for i := range d.Categories {
		if d.Categories[i].Sites == nil {
			d.Categories[i].Sites = []Site{}
		}
	}
	if d.Settings.IconSize == "" {
		d.Settings.IconSize = IconSizeNormal
	}
}

// Category returns a pointer to the category with the given id, or nil.
func (d *Document) Category(id string) *Category {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i]
		}
	}
	return nil
}

// CategoryIndex returns the position of the category with the given id,
// or -1 when it does not exist.
func (d *Document) CategoryIndex(id string) int {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Settings:   d.Settings,
		Categories: make([]Category, len(d.Categories)),
	}
	if d.Settings.WebDAV != nil {
		out.Settings.WebDAV = d.Settings.WebDAV.Clone()
	}
	for i, c := range d.Categories {
		c.Sites = append([]Site{}, c.Sites...)
		out.Categories[i] = c
	}
	return out
}

// Export returns a deep copy suitable for leaving the host: the WebDAV
// config, including credentials and sync timestamps, is stripped.
func (d *Document) Export() *Document {
	out := d.Clone()
	out.Settings.WebDAV = nil
	out.Normalize()
	return out
}

// Clone returns a copy of the config with its own timestamp pointers.
func (c *WebDAVConfig) Clone() *WebDAVConfig {
	out := *c
	if c.LastBackup != nil {
		t := *c.LastBackup
		out.LastBackup = &t
	}
	if c.LastSync != nil {
		t := *c.LastSync
		out.LastSync = &t
	}
	return &out
}

// Redacted returns a copy with the password removed, for responses.
func (c *WebDAVConfig) Redacted() *WebDAVConfig {
	out := c.Clone()
	out.Password = ""
	return out
}

// Configured reports whether enough is set to talk to a server.
func (c *WebDAVConfig) Configured() bool {
	return c != nil && c.URL != "" && c.Username != "" && c.Password != ""
}

// CategoryIDPrefix starts every generated category id.
const CategoryIDPrefix = "cat_"

// NewCategoryID returns a fresh, time-ordered category id.
func NewCategoryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return CategoryIDPrefix + uuid.NewString()
	}
	return CategoryIDPrefix + id.String()
}

// Backup file names look like itab-backup-2026-01-02T03-04-05-000Z.json and
// sort in time order.
const (
	BackupPrefix = "itab-backup-"
	BackupSuffix = ".json"
)

// BackupName returns the file name for a snapshot taken at t.
func BackupName(t time.Time) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return BackupPrefix + ts + BackupSuffix
}

// IsBackupName reports whether name looks like one produced by BackupName.
func IsBackupName(name string) bool {
	return strings.HasPrefix(name, BackupPrefix) && strings.HasSuffix(name, BackupSuffix)
}

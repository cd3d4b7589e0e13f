// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package davsync backs the dashboard document up to a WebDAV collection
// and restores it from there. It owns the stored WebDAV configuration, keeps
// its password encrypted, and runs the periodic backup timer.
//
// Manual operations report their outcome as a Result. Scheduled runs only
// log; a failing remote never stops the timer.
package davsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"itab/internal/models"
	"itab/internal/secret"
	"itab/internal/store"
	"itab/internal/urlsafe"
	"itab/internal/webdav"
)

// DefaultPath is the collection used when none is configured.
const DefaultPath = "/itab-backup/"

var (
	// ErrInvalidConfig is wrapped by Configure for rejected input.
	ErrInvalidConfig = errors.New("invalid webdav config")
	// ErrNotConfigured is returned when no usable WebDAV config is stored.
	ErrNotConfigured = errors.New("webdav is not configured")
	// ErrInvalidName rejects restore names that are not a plain file name.
	ErrInvalidName = errors.New("invalid backup name")
)

// IsInvalid reports whether err is a rejection of the caller's input or of
// the stored config, as opposed to a remote or storage failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, urlsafe.ErrNotAllowed)
}

// State is the phase of the last sync operation.
type State string

const (
	StateUnconfigured State = "unconfigured"
	StateConfigured   State = "configured"
	StateTesting      State = "testing"
	StateConnected    State = "connected"
	StateBackingUp    State = "backing_up"
	StateBackedUp     State = "backed_up"
	StateRestoring    State = "restoring"
	StateRestored     State = "restored"
	StateFailed       State = "failed"
)

// Mirror receives a copy of every uploaded snapshot.
type Mirror interface {
	Upload(ctx context.Context, name string, data []byte) error
}

// ConfigInput is the user-editable part of the WebDAV config.
type ConfigInput struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Path     string `json:"path"`
	Interval int    `json:"interval"`
}

// Result is the outcome of a manual operation.
type Result struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Status  int        `json:"status,omitempty"`
	File    string     `json:"file,omitempty"`
	Time    *time.Time `json:"time,omitempty"`
	// Err is set when the operation failed before reaching the remote.
	Err error `json:"-"`
}

// Status describes the stored config and the scheduler.
type Status struct {
	State      State                `json:"state"`
	Message    string               `json:"message,omitempty"`
	Configured bool                 `json:"configured"`
	Config     *models.WebDAVConfig `json:"config,omitempty"`
	NextRun    *time.Time           `json:"nextRun,omitempty"`
}

// Options tune an Orchestrator. The zero value is usable.
type Options struct {
	Mirror Mirror
	// TickUnit is the length of one interval step; a minute by default.
	TickUnit time.Duration
	// CheckURL vets a WebDAV URL before any request. Defaults to
	// urlsafe.Check with https required.
	CheckURL func(raw string) error
	Now      func() time.Time
}

// Orchestrator ties the store, the secret codec and the WebDAV client
// together.
type Orchestrator struct {
	store    *store.Store
	codec    *secret.Codec
	client   *webdav.Client
	mirror   Mirror
	tickUnit time.Duration
	checkURL func(string) error
	now      func() time.Time

	mu       sync.Mutex
	state    State
	message  string
	baseCtx  context.Context
	cancel   context.CancelFunc
	interval int
	nextRun  time.Time
	wg       sync.WaitGroup
}

// New returns an Orchestrator. Call Start to arm the scheduler from the
// stored config and Stop on shutdown.
func New(st *store.Store, codec *secret.Codec, client *webdav.Client, opts Options) *Orchestrator {
	o := &Orchestrator{
		store:    st,
		codec:    codec,
		client:   client,
		mirror:   opts.Mirror,
		tickUnit: opts.TickUnit,
		checkURL: opts.CheckURL,
		now:      opts.Now,
		baseCtx:  context.Background(),
	}
	if o.tickUnit <= 0 {
		o.tickUnit = time.Minute
	}
	if o.checkURL == nil {
		o.checkURL = func(raw string) error { return urlsafe.Check(raw, true) }
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Configure validates, normalizes and stores the WebDAV config, then
// re-arms the scheduler with the new interval. A blank password keeps the
// stored one if URL and username match it. Sync timestamps survive
// reconfiguration.
func (o *Orchestrator) Configure(ctx context.Context, in ConfigInput) (*models.WebDAVConfig, error) {
	base, err := normalizeURL(in.URL)
	if err != nil {
		return nil, err
	}
	if err := o.checkURL(base); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}
	if in.Interval < 0 {
		return nil, fmt.Errorf("%w: interval must not be negative", ErrInvalidConfig)
	}

	var saved *models.WebDAVConfig
	_, err = o.store.Update(ctx, func(doc *models.Document) error {
		prev := doc.Settings.WebDAV
		cfg := &models.WebDAVConfig{
			URL:      base,
			Username: username,
			Path:     NormalizePath(in.Path),
			Interval: in.Interval,
		}
		if prev != nil {
			cfg.LastBackup = prev.LastBackup
			cfg.LastSync = prev.LastSync
		}

		switch {
		case in.Password != "":
			enc, err := o.codec.Encrypt(in.Password)
			if err != nil {
				return err
			}
			cfg.Password = enc
			cfg.Encrypted = true
		case prev != nil && prev.Password != "" && sameAccount(prev, base, username):
			cfg.Password = prev.Password
			cfg.Encrypted = prev.Encrypted
			if err := o.ensureEncrypted(cfg); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: password is required", ErrInvalidConfig)
		}

		doc.Settings.WebDAV = cfg
		saved = cfg.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.setState(StateConfigured, "")
	o.Reschedule(saved.Interval)
	slog.Info("webdav configured", "component", "davsync", "url", saved.URL, "path", saved.Path, "interval", saved.Interval)
	return saved.Redacted(), nil
}

// Status reports the stored config without its password, the last state
// and the next scheduled run.
func (o *Orchestrator) Status(ctx context.Context) (*Status, error) {
	doc, err := o.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg := doc.Settings.WebDAV

	o.mu.Lock()
	defer o.mu.Unlock()

	st := &Status{State: o.state, Message: o.message, Configured: cfg.Configured()}
	if cfg != nil {
		st.Config = cfg.Redacted()
	}
	if st.State == "" {
		st.State = StateUnconfigured
		if st.Configured {
			st.State = StateConfigured
		}
	}
	if !o.nextRun.IsZero() {
		t := o.nextRun
		st.NextRun = &t
	}
	return st, nil
}

// Test checks that the remote collection is reachable with the given
// credentials by issuing MKCOL on it. A nil input tests the stored config;
// a blank password in the input falls back to the stored one for the same
// account.
func (o *Orchestrator) Test(ctx context.Context, in *ConfigInput) Result {
	cfg, cred, err := o.resolve(ctx, in)
	if err != nil {
		return o.reject(err)
	}

	o.setState(StateTesting, "")
	dir := webdav.Join(cfg.URL, cfg.Path, "")
	resp, err := o.client.Mkcol(ctx, dir, cred)
	if err != nil {
		return o.fail("connection failed: "+err.Error(), 0)
	}
	if !resp.Success && resp.Status != 405 {
		return o.fail(remoteMessage("connection failed", resp.Status), resp.Status)
	}

	o.setState(StateConnected, "")
	return Result{Success: true, Message: "connection ok", Status: resp.Status}
}

// resolve returns the config to use and its plaintext credentials.
func (o *Orchestrator) resolve(ctx context.Context, in *ConfigInput) (*models.WebDAVConfig, webdav.Credentials, error) {
	doc, err := o.store.Load(ctx)
	if err != nil {
		return nil, webdav.Credentials{}, err
	}
	return o.resolveDoc(doc, in)
}

func (o *Orchestrator) resolveDoc(doc *models.Document, in *ConfigInput) (*models.WebDAVConfig, webdav.Credentials, error) {
	stored := doc.Settings.WebDAV

	var cfg *models.WebDAVConfig
	var cred webdav.Credentials
	if in != nil {
		base, err := normalizeURL(in.URL)
		if err != nil {
			return nil, cred, err
		}
		cfg = &models.WebDAVConfig{URL: base, Username: strings.TrimSpace(in.Username), Path: NormalizePath(in.Path)}
		cred = webdav.Credentials{Username: cfg.Username, Password: in.Password}
		if cfg.Username == "" {
			return nil, cred, fmt.Errorf("%w: username is required", ErrInvalidConfig)
		}
		if cred.Password == "" && stored != nil && stored.Password != "" && sameAccount(stored, base, cfg.Username) {
			cred.Password = o.plainPassword(stored)
		}
		if cred.Password == "" {
			return nil, cred, fmt.Errorf("%w: password is required", ErrInvalidConfig)
		}
	} else {
		if !stored.Configured() {
			return nil, cred, ErrNotConfigured
		}
		cfg = stored
		cred = webdav.Credentials{Username: stored.Username, Password: o.plainPassword(stored)}
	}

	if err := o.checkURL(cfg.URL); err != nil {
		return nil, webdav.Credentials{}, err
	}
	return cfg, cred, nil
}

// sameAccount reports whether base and username name the stored account.
// Only then may a blank password stand for the stored one.
func sameAccount(stored *models.WebDAVConfig, base, username string) bool {
	storedBase, err := normalizeURL(stored.URL)
	return err == nil && storedBase == base && stored.Username == username
}

func (o *Orchestrator) plainPassword(cfg *models.WebDAVConfig) string {
	if cfg.Encrypted {
		return o.codec.Decrypt(cfg.Password)
	}
	return cfg.Password
}

// ensureEncrypted turns a legacy plaintext password into ciphertext.
func (o *Orchestrator) ensureEncrypted(cfg *models.WebDAVConfig) error {
	if cfg.Encrypted || cfg.Password == "" {
		return nil
	}
	enc, err := o.codec.Encrypt(cfg.Password)
	if err != nil {
		return err
	}
	cfg.Password = enc
	cfg.Encrypted = true
	return nil
}

func (o *Orchestrator) setState(s State, msg string) {
	o.mu.Lock()
	o.state = s
	o.message = msg
	o.mu.Unlock()
}

func (o *Orchestrator) fail(msg string, status int) Result {
	o.setState(StateFailed, msg)
	return Result{Success: false, Message: msg, Status: status}
}

// reject is fail for errors raised before any remote request.
func (o *Orchestrator) reject(err error) Result {
	res := o.fail(err.Error(), 0)
	res.Err = err
	return res
}

func remoteMessage(prefix string, status int) string {
	if status == 401 {
		return prefix + ": authentication failed, check username and password"
	}
	return fmt.Sprintf("%s: remote returned HTTP %d", prefix, status)
}

func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidConfig)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: url %q is not absolute", ErrInvalidConfig, raw)
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return raw, nil
}

// NormalizePath makes p start and end with a slash, defaulting to
// DefaultPath.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

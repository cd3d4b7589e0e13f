// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"itab/internal/board"
	"itab/internal/config"
	"itab/internal/database"
	"itab/internal/davsync"
	"itab/internal/secret"
	"itab/internal/storage"
	"itab/internal/store"
	"itab/internal/webdav"
)

// app holds the services shared by every command.
type app struct {
	cfg   *config.Config
	store *store.Store
	board *board.Board
	sync  *davsync.Orchestrator
	// mirror is nil unless S3 is configured.
	mirror *storage.Client

	closers []func() error
}

// newApp connects the configured store backend and builds the services on
// top of it. Call close when done.
func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	backend, err := a.openBackend()
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = store.New(backend)
	a.board = board.New(a.store)

	codec, err := secret.NewCodec(cfg.SecretHostID)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("secret codec: %w", err)
	}

	// The S3 mirror is optional; nil when not configured.
	mirror, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("s3 mirror: %w", err)
	}
	var opts davsync.Options
	if mirror != nil {
		a.mirror = mirror
		opts.Mirror = mirror
		slog.Info("s3 mirror enabled", "endpoint", cfg.S3Endpoint, "bucket", mirror.Bucket())
	}

	a.sync = davsync.New(a.store, codec, webdav.NewClient(cfg.WebDAVTimeout), opts)
	a.closers = append(a.closers, func() error { a.sync.Stop(); return nil })
	return a, nil
}

func (a *app) openBackend() (store.Backend, error) {
	cfg := a.cfg
	switch cfg.StoreDriver {
	case config.DriverSQLite, config.DriverPostgres:
		dsn := cfg.SQLitePath
		if cfg.StoreDriver == config.DriverPostgres {
			dsn = cfg.DSN()
		}
		db, err := database.Connect(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
		}
		a.closers = append(a.closers, db.Close)
		if err := database.Migrate(db, cfg.StoreDriver); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", cfg.StoreDriver, err)
		}
		return store.NewSQLBackend(db, cfg.StoreDriver), nil

	case config.DriverValkey:
		client, err := database.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return store.NewValkeyBackend(client, cfg.ValkeyKey), nil

	default:
		return store.NewFileBackend(cfg.DataFile), nil
	}
}

// seed writes the starter document in development when nothing is stored.
func (a *app) seed(ctx context.Context) error {
	if !a.cfg.IsDev() {
		return nil
	}
	return a.store.Seed(ctx)
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

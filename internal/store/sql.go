// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"itab/internal/database"
)

// documentRowID is the primary key of the single document row.
const documentRowID = 1

// SQLBackend keeps the document in a one-row documents table. It works
// with both the PostgreSQL and the SQLite schema.
type SQLBackend struct {
	db      *sql.DB
	dialect string
}

// NewSQLBackend returns a backend over an already migrated database.
func NewSQLBackend(db *sql.DB, dialect string) *SQLBackend {
	return &SQLBackend{db: db, dialect: dialect}
}

// Name implements Backend.
func (b *SQLBackend) Name() string { return b.dialect }

func (b *SQLBackend) selectQuery() string {
	if b.dialect == database.DialectPostgres {
		return `SELECT body FROM documents WHERE id = $1`
	}
	return `SELECT body FROM documents WHERE id = ?`
}

func (b *SQLBackend) upsertQuery() string {
	if b.dialect == database.DialectPostgres {
		return `
		INSERT INTO documents (id, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`
	}
	return `
		INSERT INTO documents (id, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
}

// Read implements Backend.
func (b *SQLBackend) Read(ctx context.Context) ([]byte, error) {
	var body []byte
	err := b.db.QueryRowContext(ctx, b.selectQuery(), documentRowID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Write implements Backend. The upsert is a single statement.
func (b *SQLBackend) Write(ctx context.Context, data []byte) error {
	var updatedAt any = time.Now().UTC()
	if b.dialect == database.DialectSQLite {
		updatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	_, err := b.db.ExecContext(ctx, b.upsertQuery(), documentRowID, string(data), updatedAt)
	return err
}

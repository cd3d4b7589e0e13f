// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itab/internal/database"
	"itab/internal/models"
)

func TestSQLiteBackendRoundTrip(t *testing.T) {
	db, err := database.Connect(database.DialectSQLite, filepath.Join(t.TempDir(), "itab.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db, database.DialectSQLite))

	s := New(NewSQLBackend(db, database.DialectSQLite))
	ctx := context.Background()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Categories)

	doc.Categories = append(doc.Categories, models.Category{ID: "cat_1", Name: "Dev"})
	require.NoError(t, s.Save(ctx, doc))
	doc.Categories[0].Name = "Work"
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Work", got.Categories[0].Name)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestPostgresBackendReadNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents WHERE id = $1`)).
		WithArgs(documentRowID).
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err = NewSQLBackend(db, database.DialectPostgres).Read(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT body FROM documents`)).
		WillReturnError(errors.New("connection reset"))

	_, err = New(NewSQLBackend(db, database.DialectPostgres)).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBackendWriteUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (id, body, updated_at)`)).
		WithArgs(documentRowID, `{"a":1}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewSQLBackend(db, database.DialectPostgres).Write(context.Background(), []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

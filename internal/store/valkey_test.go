// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itab/internal/database"
	"itab/internal/models"
)

func TestValkeyBackendRoundTrip(t *testing.T) {
	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}
	client, err := database.ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"), 0)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	key := "itab:test:" + t.Name()
	ctx := context.Background()
	defer client.Del(ctx, key)

	b := NewValkeyBackend(client, key)
	_, err = b.Read(ctx)
	assert.ErrorIs(t, err, ErrNoData)

	s := New(b)
	doc := models.NewDocument()
	doc.Settings.LogoText = "Valkey"
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Valkey", got.Settings.LogoText)
}

func TestValkeyDefaultKey(t *testing.T) {
	b := NewValkeyBackend(nil, "")
	assert.Equal(t, DefaultValkeyKey, b.key)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultValkeyKey is where the document lives in Valkey.
const DefaultValkeyKey = "itab:document"

// ValkeyBackend keeps the document under a single Valkey key.
type ValkeyBackend struct {
	client *redis.Client
	key    string
}

// NewValkeyBackend returns a backend storing under key, or
// DefaultValkeyKey when key is empty.
func NewValkeyBackend(client *redis.Client, key string) *ValkeyBackend {
	if key == "" {
		key = DefaultValkeyKey
	}
	return &ValkeyBackend{client: client, key: key}
}

// Name implements Backend.
func (b *ValkeyBackend) Name() string { return "valkey" }

// Read implements Backend.
func (b *ValkeyBackend) Read(ctx context.Context) ([]byte, error) {
	val, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Write implements Backend. SET replaces the value atomically.
func (b *ValkeyBackend) Write(ctx context.Context, data []byte) error {
	return b.client.Set(ctx, b.key, data, 0).Err()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshotRejects(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`[]`,
		`{"settings":{}}`,
		`{"categories":null}`,
		`{"categories":"nope"}`,
		`{"categories":{"a":1}}`,
		`{"categories":[1,2]}`,
	} {
		_, err := ParseSnapshot([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidSnapshot, raw)
	}
}

func TestParseSnapshotDropsNulls(t *testing.T) {
	doc, err := ParseSnapshot([]byte(`{
		"settings": {"logoText": "Mine"},
		"categories": [
			null,
			{"id": "cat_1", "name": "Dev", "icon": "💻", "sites": [null, {"name": "Go", "url": "https://go.dev"}]},
			{"id": "cat_2", "name": "Empty", "icon": "📁"}
		]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Mine", doc.Settings.LogoText)
	require.Len(t, doc.Categories, 2)
	require.Len(t, doc.Categories[0].Sites, 1)
	assert.Equal(t, "Go", doc.Categories[0].Sites[0].Name)
	assert.NotNil(t, doc.Categories[1].Sites)
}

func TestParseSnapshotReassignsDuplicateIDs(t *testing.T) {
	doc, err := ParseSnapshot([]byte(`{"categories": [
		{"id": "cat_1", "name": "A"},
		{"id": "cat_1", "name": "B"},
		{"id": "", "name": "C"},
		{"name": "D"}
	]}`))
	require.NoError(t, err)
	require.Len(t, doc.Categories, 4)
	assert.Equal(t, "cat_1", doc.Categories[0].ID)

	ids := map[string]bool{}
	for _, c := range doc.Categories {
		require.NotEmpty(t, c.ID, c.Name)
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
	}
	assert.Equal(t, "B", doc.Category(doc.Categories[1].ID).Name)
}

func TestDecodeStoredDocument(t *testing.T) {
	doc, err := Decode([]byte(`{"settings":{"logoText":"Mine"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Mine", doc.Settings.LogoText)
	assert.NotNil(t, doc.Categories)

	doc, err = Decode([]byte(`{"categories":[{"id":"cat_1","name":"Dev","sites":[null,{"name":"Go"}]}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Categories[0].Sites, 1)
	assert.Equal(t, "Go", doc.Categories[0].Sites[0].Name)

	_, err = Decode([]byte(`{"categories":"nope"}`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

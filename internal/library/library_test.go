// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chatbook/internal/split"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// exportConversation builds a raw conversation with one user message.
func exportConversation(title string, createTime float64) split.RawConversation {
	raw := map[string]any{
		"title":       title,
		"create_time": createTime,
		"mapping": map[string]any{
			"root": map[string]any{"id": "root", "parent": nil, "children": []string{"m1"}},
			"m1": map[string]any{"id": "m1", "parent": "root", "children": []string{},
				"message": map[string]any{
					"author":   map[string]any{"role": "user"},
					"content":  map[string]any{"content_type": "text", "parts": []any{"hi"}},
					"metadata": map[string]any{},
				}},
		},
	}
	data, err := json.Marshal(raw)
	if err != nil {
		panic(err)
	}
	return split.RawConversation{Raw: data, CreateTime: createTime}
}

func TestIngestAndStats(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	convs := []split.RawConversation{
		exportConversation("First", 1700000000),  // 2023-11
		exportConversation("Second", 1700000100), // 2023-11
		exportConversation("Third", 1704100000),  // 2024-01
	}

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, convs, &log)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Ingested)
	assert.Equal(t, 0, summary.Failed)
	assert.Contains(t, log.String(), "Cataloged 3 conversations")

	var stats bytes.Buffer
	require.NoError(t, store.Stats(ctx, &stats))
	out := stats.String()
	assert.Contains(t, out, "2023-11")
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "total")

	// 2023-11 holds two conversations with one message each.
	assert.Regexp(t, `2023-11\s+2 conversations\s+2 messages`, out)
}

func TestIngestBadPayload(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	convs := []split.RawConversation{
		{Raw: json.RawMessage(`"not an object"`)},
		exportConversation("Good", 1700000000),
	}

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, convs, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ingested)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, log.String(), "Skipping conversation 0")
}

func TestIngestUnknownMonth(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	conv := split.RawConversation{Raw: json.RawMessage(`{"title":"No Time","mapping":{}}`)}
	var log bytes.Buffer
	summary, err := store.Ingest(ctx, []split.RawConversation{conv}, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ingested)

	var stats bytes.Buffer
	require.NoError(t, store.Stats(ctx, &stats))
	assert.Contains(t, stats.String(), "unknown")
}

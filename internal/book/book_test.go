// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package book

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/chatbook/internal/pipeline"
)

const sampleText = `# Trip Planning
Created: 2024-01-05 10:00:00 UTC
Updated: 2024-01-05 11:00:00 UTC
============================================================

## User Prompt
**Time:** 2024-01-05 10:00:00 UTC
**Content:** Where should I go in March?
It needs to be warm.

## Assistant Response
**Time:** 2024-01-05 10:00:10 UTC
**Model: gpt-4o | Type: next**
**Content:** Consider Lisbon.
Mild weather and good food.

----------------------------------------

## User Prompt
**Time:** 2024-01-05 10:05:00 UTC
**Content:** Sounds good.

## System Message
**Time:** 2024-01-05 10:05:01 UTC
**Content:** context updated
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleText))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, RoleUserPrompt, entries[0].Role)
	assert.Equal(t, "2024-01-05 10:00:00 UTC", entries[0].Time)
	assert.Equal(t, "Where should I go in March?\nIt needs to be warm.", entries[0].Content)

	assert.Equal(t, RoleAssistantResponse, entries[1].Role)
	assert.Equal(t, "2024-01-05 10:00:10 UTC", entries[1].Time)
	// The bold model line is metadata, not content.
	assert.NotContains(t, entries[1].Content, "gpt-4o")
	assert.Equal(t, "Consider Lisbon.\nMild weather and good food.", entries[1].Content)

	assert.Equal(t, RoleUserPrompt, entries[2].Role)
	assert.Equal(t, "System Message", entries[3].Role)
	assert.Equal(t, "context updated", entries[3].Content)
}

func TestParseDropsEmptyEntries(t *testing.T) {
	text := "## User Prompt\n**Time:** t1\n**Content:** \n\n## Assistant Response\n**Content:** kept\n"
	entries, err := Parse(strings.NewReader(text))
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, RoleAssistantResponse, entries[0].Role)
	assert.Equal(t, "kept", entries[0].Content)
}

func TestParsePrecedence(t *testing.T) {
	// A dash-prefixed content line is treated as a separator and lost;
	// a plain continuation line is kept. Both behaviors are part of the
	// format contract.
	text := "## User Prompt\n**Content:** first\n- a bullet\nplain line\n"
	entries, err := Parse(strings.NewReader(text))
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "first\nplain line", entries[0].Content)
}

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"conversations_2024-01.txt", "2024-01"},
		{filepath.Join("out", "2024-01", "conversations_Trip_Planning.txt"), "Trip Planning"},
		{"notes.txt", "notes"},
		{"plain_name.txt", "plain name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromFilename(tt.path), "path %q", tt.path)
	}
}

func TestRender(t *testing.T) {
	entries := []Entry{
		{Time: "t1", Role: RoleUserPrompt, Content: "question"},
		{Time: "t2", Role: RoleAssistantResponse, Content: "answer"},
		{Time: "t3", Role: "System Message", Content: "invisible"},
		{Time: "t4", Role: RoleUserPrompt, Content: "follow-up"},
		{Time: "t5", Role: RoleAssistantResponse, Content: "final"},
	}

	got := Render(entries, "my title")

	assert.Contains(t, got, "MY TITLE")
	assert.Contains(t, got, "[t1]\nYou: question")
	assert.Contains(t, got, "[t2]\nAssistant: answer")
	assert.Contains(t, got, "[t4]\nYou: follow-up")
	assert.Contains(t, got, "[t5]\nAssistant: final")

	// Non-user, non-assistant entries are dropped from book output.
	assert.NotContains(t, got, "invisible")

	// The separator keys off the immediately next entry. "answer" is
	// followed by a system entry and "final" is last, so no separator
	// appears even though a user prompt comes two entries later.
	assert.Equal(t, 0, strings.Count(got, strings.Repeat("-", 40)))
}

func TestRenderSeparatorBeforeNextPrompt(t *testing.T) {
	entries := []Entry{
		{Time: "t1", Role: RoleUserPrompt, Content: "one"},
		{Time: "t2", Role: RoleAssistantResponse, Content: "two"},
		{Time: "t3", Role: RoleUserPrompt, Content: "three"},
	}

	got := Render(entries, "t")
	assert.Equal(t, 1, strings.Count(got, strings.Repeat("-", 40)))

	sep := strings.Index(got, strings.Repeat("-", 40))
	assert.Greater(t, sep, strings.Index(got, "Assistant: two"))
	assert.Less(t, sep, strings.Index(got, "You: three"))
}

func TestRoundTrip(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleText))
	require.NoError(t, err)

	got := Render(entries, "trip planning")

	assert.Contains(t, got, "You: Where should I go in March?\nIt needs to be warm.")
	assert.Contains(t, got, "Assistant: Consider Lisbon.\nMild weather and good food.")
	assert.Contains(t, got, "You: Sounds good.")
	assert.NotContains(t, got, "context updated")
}

func TestFile(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := filepath.Join(tmpDir, "conversations_Trip_Planning.txt")
	outPath := filepath.Join(tmpDir, "out", "conversations_Trip_Planning.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(outPath), 0o755))
	require.NoError(t, os.WriteFile(inPath, []byte(sampleText), 0o644))

	var log bytes.Buffer
	require.NoError(t, File(inPath, outPath, &log))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TRIP PLANNING")
}

func TestFileNoEntries(t *testing.T) {
	tmpDir := t.TempDir()
	inPath := filepath.Join(tmpDir, "empty.txt")
	outPath := filepath.Join(tmpDir, "empty-book.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("Created: x\n====\n"), 0o644))

	var log bytes.Buffer
	err := File(inPath, outPath, &log)
	assert.ErrorIs(t, err, pipeline.ErrSkipped)
	assert.Contains(t, log.String(), "No conversations found")

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

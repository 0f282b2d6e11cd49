// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package linearize

import (
	"encoding/json"
	"testing"

	"github.com/pdiddy/chatbook/pkg/types"
)

// textMessage builds a visible text message whose single part is body.
func textMessage(role, body string) *types.Message {
	return &types.Message{
		Author:  types.Author{Role: role},
		Content: types.Content{ContentType: "text", Parts: []any{body}},
	}
}

// buildMap assembles a NodeMap from nodes in the given key order.
func buildMap(ids []string, nodes map[string]types.Node) types.NodeMap {
	m := types.NodeMap{Nodes: map[string]types.Node{}, Order: ids}
	for id, n := range nodes {
		n.ID = id
		m.Nodes[id] = n
	}
	return m
}

func strPtr(s string) *string { return &s }

func contents(msgs []types.Message) []string {
	out := make([]string, len(msgs))
	for i := range msgs {
		out[i] = Content(&msgs[i])
	}
	return out
}

func TestChainDocumentOrder(t *testing.T) {
	// Timestamps deliberately contradict document order: the walk must
	// follow children lists, not create_time.
	late := 2000.0
	early := 1000.0
	first := textMessage(types.RoleUser, "first")
	first.CreateTime = &late
	second := textMessage(types.RoleAssistant, "second")
	second.CreateTime = &early

	m := buildMap([]string{"root", "a", "b", "c"}, map[string]types.Node{
		"root": {Children: []string{"a", "c"}},
		"a":    {Parent: strPtr("root"), Children: []string{"b"}, Message: first},
		"b":    {Parent: strPtr("a"), Message: second},
		"c":    {Parent: strPtr("root"), Message: textMessage(types.RoleUser, "third")},
	})

	got := contents(Chain(&m, "root"))
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestChainFiltering(t *testing.T) {
	hidden := textMessage(types.RoleAssistant, "should not appear")
	hidden.Metadata.Hidden = true

	tests := []struct {
		name string
		msg  *types.Message
		want int
	}{
		{"visible user message kept", textMessage(types.RoleUser, "hello"), 1},
		{"hidden message dropped", hidden, 0},
		{"empty system message dropped", textMessage(types.RoleSystem, ""), 0},
		{"whitespace system message dropped", textMessage(types.RoleSystem, "  \n\t"), 0},
		{"non-empty system message kept", textMessage(types.RoleSystem, "instructions"), 1},
		{"non-text content kept for non-system roles", &types.Message{
			Author:  types.Author{Role: types.RoleTool},
			Content: types.Content{ContentType: "code", Parts: []any{"x = 1"}},
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := buildMap([]string{"root"}, map[string]types.Node{
				"root": {Message: tt.msg},
			})
			got := Chain(&m, "root")
			if len(got) != tt.want {
				t.Errorf("got %d messages, want %d", len(got), tt.want)
			}
		})
	}
}

func TestChainDanglingChild(t *testing.T) {
	m := buildMap([]string{"root", "a"}, map[string]types.Node{
		"root": {Children: []string{"missing", "a"}},
		"a":    {Parent: strPtr("root"), Message: textMessage(types.RoleUser, "still here")},
	})

	got := Chain(&m, "root")
	if len(got) != 1 || Content(&got[0]) != "still here" {
		t.Fatalf("dangling child should be skipped, got %v", contents(got))
	}
}

func TestRootSelection(t *testing.T) {
	// Two parentless nodes: the first in document order wins. Decoded
	// from JSON so key order comes from the document, not a Go map.
	raw := `{
		"b": {"id": "b", "parent": null, "children": [], "message": null},
		"a": {"id": "a", "parent": null, "children": [], "message": null}
	}`
	var m types.NodeMap
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Fatalf("decoded %d nodes, want 2", m.Len())
	}

	id, ok := Root(&m)
	if !ok {
		t.Fatal("expected a root")
	}
	if id != "b" {
		t.Errorf("root = %q, want %q (document order)", id, "b")
	}
}

func TestConversationNoRoot(t *testing.T) {
	m := buildMap([]string{"a"}, map[string]types.Node{
		"a": {Parent: strPtr("ghost"), Message: textMessage(types.RoleUser, "orphan")},
	})
	conv := &types.Conversation{Title: "t", Mapping: m}

	if got := Conversation(conv); got != nil {
		t.Errorf("expected nil for rootless mapping, got %v", contents(got))
	}
}

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		c    types.Content
		want string
	}{
		{"joins parts with newline", types.Content{ContentType: "text", Parts: []any{"a", "b"}}, "a\nb"},
		{"skips nil and empty parts", types.Content{ContentType: "text", Parts: []any{"a", nil, "", "b"}}, "a\nb"},
		{"non-text type is empty", types.Content{ContentType: "code", Parts: []any{"x"}}, ""},
		{"no parts is empty", types.Content{ContentType: "text"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &types.Message{Content: tt.c}
			if got := Content(msg); got != tt.want {
				t.Errorf("Content() = %q, want %q", got, tt.want)
			}
		})
	}
}

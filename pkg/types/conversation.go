// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Role values that appear in exported conversations. Other values are
// possible and are passed through untouched.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Conversation is one exported conversation record. It may appear standalone
// in a file or as an element of a top-level list.
type Conversation struct {
	// Title is the conversation title as exported.
	Title string `json:"title"`

	// CreateTime is the Unix timestamp of conversation creation, if present.
	CreateTime *float64 `json:"create_time"`

	// UpdateTime is the Unix timestamp of the last update, if present.
	UpdateTime *float64 `json:"update_time"`

	// Mapping holds the conversation tree keyed by node ID.
	Mapping NodeMap `json:"mapping"`
}

// Node is one entry in a conversation's mapping. Nodes form a tree through
// Parent and Children; Children order is document order and is the order
// linearization follows.
type Node struct {
	ID       string   `json:"id"`
	Parent   *string  `json:"parent"`
	Children []string `json:"children"`
	Message  *Message `json:"message"`
}

// Message is the payload attached to a node.
type Message struct {
	Author     Author   `json:"author"`
	CreateTime *float64 `json:"create_time"`
	Content    Content  `json:"content"`
	Metadata   Metadata `json:"metadata"`
}

// Author identifies who produced a message.
type Author struct {
	Role string `json:"role"`
}

// Content holds the message body. Only content_type "text" carries
// renderable parts; other types (code, images) render as empty.
type Content struct {
	ContentType string `json:"content_type"`
	Parts       []any  `json:"parts"`
}

// Metadata holds the message metadata fields the pipeline reads.
// ModelSlug is a pointer because presence of the key matters, not just
// a non-empty value.
type Metadata struct {
	ModelSlug   *string `json:"model_slug"`
	MessageType string  `json:"message_type"`
	Hidden      bool    `json:"is_visually_hidden_from_conversation"`
}

// NodeMap is the conversation tree mapping. It preserves the JSON document
// order of its keys: root selection is "first node with no parent", and a
// plain Go map would make that nondeterministic.
type NodeMap struct {
	Nodes map[string]Node
	Order []string
}

// Get returns the node for id and whether it exists.
func (m *NodeMap) Get(id string) (Node, bool) {
	n, ok := m.Nodes[id]
	return n, ok
}

// Len returns the number of nodes in the mapping.
func (m *NodeMap) Len() int {
	return len(m.Order)
}

// UnmarshalJSON decodes a JSON object into the map, recording key order.
// A JSON null leaves the map empty.
func (m *NodeMap) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("mapping: expected JSON object, got %v", tok)
	}

	m.Nodes = make(map[string]Node)
	m.Order = nil

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("mapping: expected string key, got %v", keyTok)
		}

		var n Node
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("mapping: decoding node %q: %w", key, err)
		}

		m.Nodes[key] = n
		m.Order = append(m.Order, key)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

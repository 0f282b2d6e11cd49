// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package linearize flattens a conversation's node tree into the ordered
// message sequence the text renderer consumes.
package linearize

import (
	"fmt"
	"strings"

	"github.com/pdiddy/chatbook/pkg/types"
)

// Root returns the ID of the conversation root: the first node in document
// order whose parent is absent. ok is false when the mapping has no such
// node, which callers render as an empty conversation.
func Root(m *types.NodeMap) (id string, ok bool) {
	for _, id := range m.Order {
		if n := m.Nodes[id]; n.Parent == nil {
			return id, true
		}
	}
	return "", false
}

// Conversation linearizes conv's mapping starting at its root. A mapping
// with no root yields nil.
func Conversation(conv *types.Conversation) []types.Message {
	rootID, ok := Root(&conv.Mapping)
	if !ok {
		return nil
	}
	return Chain(&conv.Mapping, rootID)
}

// Chain walks the tree from rootID in pre-order, following each node's
// children in listed order (document order, never timestamp order), and
// collects the visible messages. Hidden messages and system messages with
// no content are dropped. Child IDs that do not resolve to a node end
// that branch silently.
func Chain(m *types.NodeMap, rootID string) []types.Message {
	messages := make([]types.Message, 0, m.Len())

	stack := []string{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := m.Get(id)
		if !ok {
			continue
		}

		if msg := node.Message; msg != nil && !msg.Metadata.Hidden {
			emptySystem := msg.Author.Role == types.RoleSystem &&
				strings.TrimSpace(Content(msg)) == ""
			if !emptySystem {
				messages = append(messages, *msg)
			}
		}

		// Push children reversed so the first child is visited first.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return messages
}

// Content extracts the renderable text of a message: the newline-joined
// parts when the content type is "text", empty otherwise. Nil and empty
// parts are skipped; non-string parts render with their default formatting.
func Content(msg *types.Message) string {
	c := msg.Content
	if c.ContentType != "text" || len(c.Parts) == 0 {
		return ""
	}

	parts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		switch v := p.(type) {
		case nil:
		case string:
			if v != "" {
				parts = append(parts, v)
			}
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, "\n")
}

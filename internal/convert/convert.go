// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders exported conversation JSON as readable text:
// a titled header followed by user/assistant exchanges with timestamps
// and model information.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pdiddy/chatbook/internal/linearize"
	"github.com/pdiddy/chatbook/pkg/types"
)

const (
	headerRule       = 60
	conversationRule = 80
	exchangeRule     = 40
)

// untitled is the title used when a conversation has none.
const untitled = "Untitled Conversation"

// FormatTimestamp renders a Unix timestamp as "YYYY-MM-DD HH:MM:SS UTC".
// Absent and non-positive timestamps render as "[Unknown time]".
func FormatTimestamp(ts *float64) string {
	if ts == nil || *ts <= 0 {
		return "[Unknown time]"
	}
	return time.Unix(int64(*ts), 0).UTC().Format("2006-01-02 15:04:05 UTC")
}

// ModelInfo extracts the bolded model line for an assistant block:
// "Model: <slug>" and/or "Type: <message_type>" joined by " | ", or
// empty when the metadata carries neither.
func ModelInfo(msg *types.Message) string {
	var info []string
	if msg.Metadata.ModelSlug != nil {
		info = append(info, "Model: "+*msg.Metadata.ModelSlug)
	}
	if msg.Metadata.MessageType != "" {
		info = append(info, "Type: "+msg.Metadata.MessageType)
	}
	return strings.Join(info, " | ")
}

// Render converts one conversation to its text form. Messages are grouped
// into exchanges: a user message starts a new exchange and flushes the
// previous one behind a dashed separator; assistant, system, and tool
// messages extend the current exchange. Messages with no text content are
// skipped outright.
func Render(conv *types.Conversation) string {
	title := conv.Title
	if title == "" {
		title = untitled
	}

	rootID, ok := linearize.Root(&conv.Mapping)
	if !ok {
		return fmt.Sprintf("# %s\n\n[No conversation data found]\n", title)
	}
	messages := linearize.Chain(&conv.Mapping, rootID)

	out := []string{
		"# " + title,
		"Created: " + FormatTimestamp(conv.CreateTime),
		"Updated: " + FormatTimestamp(conv.UpdateTime),
		strings.Repeat("=", headerRule),
		"",
	}

	var exchange []string
	for i := range messages {
		msg := &messages[i]
		content := linearize.Content(msg)
		if strings.TrimSpace(content) == "" {
			continue
		}
		ts := FormatTimestamp(msg.CreateTime)

		switch msg.Author.Role {
		case types.RoleUser:
			if len(exchange) > 0 {
				out = append(out, exchange...)
				out = append(out, "", strings.Repeat("-", exchangeRule), "")
				exchange = nil
			}
			exchange = append(exchange,
				"## User Prompt",
				"**Time:** "+ts,
				"**Content:** "+content,
				"")

		case types.RoleAssistant:
			exchange = append(exchange, "## Assistant Response", "**Time:** "+ts)
			if info := ModelInfo(msg); info != "" {
				exchange = append(exchange, "**"+info+"**")
			}
			exchange = append(exchange, "**Content:** "+content, "")

		case types.RoleSystem:
			exchange = append(exchange,
				"## System Message",
				"**Time:** "+ts,
				"**Content:** "+content,
				"")

		case types.RoleTool:
			exchange = append(exchange,
				"## Tool Response",
				"**Time:** "+ts,
				"**Content:** "+content,
				"")
		}
	}

	if len(exchange) > 0 {
		out = append(out, exchange...)
	}

	return strings.Join(out, "\n")
}

// RenderAll renders a sequence of conversations, separating the blocks
// with an 80-character rule.
func RenderAll(convs []types.Conversation) string {
	blocks := make([]string, 0, len(convs)*2)
	for i := range convs {
		blocks = append(blocks, Render(&convs[i]))
		blocks = append(blocks, "\n"+strings.Repeat("=", conversationRule)+"\n")
	}
	return strings.Join(blocks, "\n")
}

// File converts one JSON file to text. The input may hold a single
// conversation object or a top-level list of conversations.
func File(inputPath, outputPath string, _ io.Writer) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}

	var result string
	if isJSONArray(data) {
		var convs []types.Conversation
		if err := json.Unmarshal(data, &convs); err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
		result = RenderAll(convs)
	} else {
		var conv types.Conversation
		if err := json.Unmarshal(data, &conv); err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
		result = Render(&conv)
	}

	return os.WriteFile(outputPath, []byte(result), 0o644)
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

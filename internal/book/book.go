// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package book re-renders converted conversation text into a flowing
// book style: a line-oriented parser recovers (time, role, content)
// entries from the structured text, and the renderer prints them as
// "You:"/"Assistant:" passages under an uppercased title.
package book

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/chatbook/internal/pipeline"
)

// Role labels produced by the text converter. Only these two render in
// book output; other labels survive parsing but are dropped on render.
const (
	RoleUserPrompt        = "User Prompt"
	RoleAssistantResponse = "Assistant Response"
)

const (
	titleRule     = 60
	exchangeRule  = 40
	maxLineLength = 4 << 20
)

const (
	timePrefix    = "**Time:** "
	headerPrefix  = "## "
	contentPrefix = "**Content:** "
)

// Entry is one parsed block: the pending timestamp at the time its role
// header appeared, the role label, and the accumulated content.
type Entry struct {
	Time    string
	Role    string
	Content string
}

// parser is the line state machine. Idle until the first role header;
// accumulating once a role is active. Flushing completes an entry when a
// new header or end of input arrives.
type parser struct {
	time    string
	role    string
	content []string
	entries []Entry
}

func (p *parser) flush() {
	if p.role == "" || len(p.content) == 0 {
		return
	}
	content := strings.TrimSpace(strings.Join(p.content, "\n"))
	if content != "" {
		p.entries = append(p.entries, Entry{Time: p.time, Role: p.role, Content: content})
	}
}

// consume classifies one line. Precedence: time line, role header,
// metadata discard, content start, plain content. The time check runs
// before the metadata discard because a time line is also a bold line.
func (p *parser) consume(line string) {
	if after, ok := strings.CutPrefix(line, timePrefix); ok {
		p.time = after
		return
	}

	if after, ok := strings.CutPrefix(line, headerPrefix); ok {
		p.flush()
		p.role = after
		p.content = nil
		return
	}

	if isMetadataLine(line) {
		return
	}

	if after, ok := strings.CutPrefix(line, contentPrefix); ok {
		if after != "" {
			p.content = append(p.content, after)
		}
		return
	}

	if p.role != "" && strings.TrimSpace(line) != "" {
		p.content = append(p.content, line)
	}
}

// isMetadataLine reports whether a line is document furniture to discard:
// bold lines other than content, header/timestamp lines, rules, blanks.
func isMetadataLine(line string) bool {
	if strings.HasPrefix(line, "**") && !strings.Contains(line, "Content:") {
		return true
	}
	return strings.HasPrefix(line, "Created:") ||
		strings.HasPrefix(line, "Updated:") ||
		strings.HasPrefix(line, "=") ||
		strings.HasPrefix(line, "-") ||
		strings.HasPrefix(line, "# ") ||
		strings.TrimSpace(line) == ""
}

// Parse reads converted conversation text and returns its entries in
// document order.
func Parse(r io.Reader) ([]Entry, error) {
	p := &parser{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		p.consume(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	p.flush()
	return p.entries, nil
}

// TitleFromFilename derives the book title from the source filename:
// the "conversations_" prefix and ".txt" suffix are stripped and
// underscores become spaces.
func TitleFromFilename(path string) string {
	name := filepath.Base(path)
	name = strings.TrimPrefix(name, "conversations_")
	name = strings.TrimSuffix(name, ".txt")
	return strings.ReplaceAll(name, "_", " ")
}

// Render prints entries in book form. User prompts render as "You:",
// assistant responses as "Assistant:", each under its bracketed time; a
// dashed separator closes an assistant response when a user prompt
// follows. Entries with any other role label are dropped.
func Render(entries []Entry, title string) string {
	out := []string{
		strings.Repeat("=", titleRule),
		strings.ToUpper(title),
		strings.Repeat("=", titleRule),
		"",
	}

	for i, e := range entries {
		switch e.Role {
		case RoleUserPrompt:
			out = append(out, "["+e.Time+"]", "You: "+e.Content, "")

		case RoleAssistantResponse:
			out = append(out, "["+e.Time+"]", "Assistant: "+e.Content, "")
			if i+1 < len(entries) && entries[i+1].Role == RoleUserPrompt {
				out = append(out, strings.Repeat("-", exchangeRule), "")
			}
		}
	}

	return strings.Join(out, "\n")
}

// File converts one converted-text file to book form. A file that parses
// to no entries is skipped with a notice and no output is written.
func File(inputPath, outputPath string, w io.Writer) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "No conversations found in %s\n", inputPath)
		return pipeline.ErrSkipped
	}

	content := Render(entries, TitleFromFilename(inputPath))
	return os.WriteFile(outputPath, []byte(content), 0o644)
}

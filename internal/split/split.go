// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split breaks one large conversation export into smaller JSON
// files grouped by month, ISO week, sanitized title, or date-then-title.
// Conversations pass through as raw JSON so fields the splitter does not
// understand survive unchanged.
package split

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/chatbook/pkg/types"
)

// wrapperKeys are the object keys probed, in order, when the export's
// top level is an object rather than a list.
var wrapperKeys = []string{"conversations", "items", "data"}

// maxTitleKey caps sanitized title length for filesystem compatibility.
const maxTitleKey = 100

// RawConversation is one conversation from an export: the verbatim JSON
// plus the few fields the splitter probes out of it.
type RawConversation struct {
	Raw        json.RawMessage
	Title      *string
	CreateTime any
	UpdateTime any
}

// probe mirrors the fields RawConversation needs from each element.
type probe struct {
	Title      *string `json:"title"`
	CreateTime any     `json:"create_time"`
	UpdateTime any     `json:"update_time"`
}

// Load reads an export file and returns its conversations. The top level
// must be a list, or an object carrying a list under "conversations",
// "items", or "data" (probed in that order); anything else is a format
// error and fatal to the invocation.
func Load(path string) ([]RawConversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	elements, err := conversationList(data)
	if err != nil {
		return nil, err
	}

	convs := make([]RawConversation, len(elements))
	for i, raw := range elements {
		convs[i] = RawConversation{Raw: raw}
		var p probe
		// Elements that are not objects still pass through; they just
		// land in the unknown/untitled buckets.
		if err := json.Unmarshal(raw, &p); err == nil {
			convs[i].Title = p.Title
			convs[i].CreateTime = p.CreateTime
			convs[i].UpdateTime = p.UpdateTime
		}
	}
	return convs, nil
}

func conversationList(data []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")

	if strings.HasPrefix(trimmed, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
		return elements, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err == nil {
		for _, key := range wrapperKeys {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			var elements []json.RawMessage
			// A null value leaves the slice nil; only an actual JSON
			// array satisfies the key, otherwise keep probing.
			if err := json.Unmarshal(raw, &elements); err == nil && elements != nil {
				return elements, nil
			}
		}
	}

	return nil, fmt.Errorf("could not find conversations list in JSON file: " +
		"root must be a list or contain a 'conversations' list")
}

// Timestamp extracts a Unix timestamp from a conversation: create_time
// first, then update_time. Numeric values are used directly and string
// values are parsed as numbers; when neither key yields a number the
// result is 0, the "unknown" sentinel.
func Timestamp(c *RawConversation) float64 {
	for _, v := range []any{c.CreateTime, c.UpdateTime} {
		switch t := v.(type) {
		case float64:
			return t
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// SanitizeTitle turns a conversation title into a filesystem-safe bucket
// key: invalid filename characters and whitespace runs collapse to
// single underscores and the result is capped at 100 characters.
func SanitizeTitle(title string) string {
	s := invalidChars.ReplaceAllString(title, "_")
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	if utf8.RuneCountInString(s) > maxTitleKey {
		s = string([]rune(s)[:maxTitleKey])
	}
	return s
}

// BucketKey derives the bucket key for a conversation. Title mode keys on
// the sanitized title ("untitled" when absent); month and date_title
// modes key on the UTC month "YYYY-MM"; week mode keys on the ISO week
// "YYYY-Www". Non-positive timestamps key as "unknown".
func BucketKey(timestamp float64, mode types.SplitMode, c *RawConversation) string {
	if mode == types.ModeTitle {
		if c != nil && c.Title != nil {
			return SanitizeTitle(*c.Title)
		}
		return "untitled"
	}

	if timestamp <= 0 {
		return "unknown"
	}

	t := time.Unix(int64(timestamp), 0).UTC()
	if mode == types.ModeWeek {
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return t.Format("2006-01")
}

// Group partitions conversations into buckets, preserving input order
// within each bucket. Every conversation lands in exactly one bucket and
// the assignment is deterministic.
func Group(convs []RawConversation, mode types.SplitMode) map[string][]RawConversation {
	buckets := make(map[string][]RawConversation)
	for i := range convs {
		c := &convs[i]
		var key string
		if mode == types.ModeTitle {
			key = BucketKey(0, mode, c)
		} else {
			key = BucketKey(Timestamp(c), mode, c)
		}
		buckets[key] = append(buckets[key], *c)
	}
	return buckets
}

// manifest describes the files a split run produced.
type manifest struct {
	Mode    types.SplitMode  `yaml:"mode"`
	Prefix  string           `yaml:"prefix"`
	Total   int              `yaml:"total_conversations"`
	Buckets []manifestBucket `yaml:"buckets"`
}

type manifestBucket struct {
	Key   string `yaml:"key"`
	Count int    `yaml:"count"`
	File  string `yaml:"file"`
}

// WriteBuckets writes each bucket as pretty-printed JSON under outputDir
// in sorted key order. Keys listed in cfg.OutMonths are excluded with a
// console notice. In date_title mode each date bucket becomes a
// directory holding one file per sanitized title. With cfg.Manifest set,
// a manifest.yaml describing the written files is added.
func WriteBuckets(buckets map[string][]RawConversation, outputDir string, cfg types.SplitConfig, w io.Writer) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	excluded := make(map[string]bool, len(cfg.OutMonths))
	for _, key := range cfg.OutMonths {
		excluded[key] = true
	}

	var written []manifestBucket
	for _, key := range sortedKeys(buckets) {
		convs := buckets[key]
		if excluded[key] {
			fmt.Fprintf(w, "Skipping %s (%d conversations) - excluded month\n", key, len(convs))
			continue
		}

		if cfg.Mode == types.ModeDateTitle {
			entries, err := writeDateDir(key, convs, outputDir, cfg.Prefix, w)
			if err != nil {
				return err
			}
			written = append(written, entries...)
			continue
		}

		file := cfg.Prefix + "_" + key + ".json"
		if err := writeJSON(filepath.Join(outputDir, file), convs); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %4d conversations to %s\n", len(convs), filepath.Join(outputDir, file))
		written = append(written, manifestBucket{Key: key, Count: len(convs), File: file})
	}

	if cfg.Manifest {
		if err := writeManifest(outputDir, cfg, written); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote manifest to %s\n", filepath.Join(outputDir, "manifest.yaml"))
	}
	return nil
}

// writeDateDir handles one date bucket in date_title mode: a directory
// named for the date, one file per sanitized title inside it.
func writeDateDir(date string, convs []RawConversation, outputDir, prefix string, w io.Writer) ([]manifestBucket, error) {
	dateDir := filepath.Join(outputDir, date)
	if err := os.MkdirAll(dateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dateDir, err)
	}

	titleGroups := Group(convs, types.ModeTitle)

	var written []manifestBucket
	for _, title := range sortedKeys(titleGroups) {
		group := titleGroups[title]
		file := prefix + "_" + title + ".json"
		path := filepath.Join(dateDir, file)
		if err := writeJSON(path, group); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "Wrote %4d conversations to %s\n", len(group), path)
		written = append(written, manifestBucket{
			Key:   date + "/" + title,
			Count: len(group),
			File:  filepath.Join(date, file),
		})
	}
	return written, nil
}

func writeManifest(outputDir string, cfg types.SplitConfig, buckets []manifestBucket) error {
	m := manifest{Mode: cfg.Mode, Prefix: cfg.Prefix, Buckets: buckets}
	for _, b := range buckets {
		m.Total += b.Count
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, "manifest.yaml"), data, 0o644)
}

// writeJSON writes conversations as a pretty-printed JSON list with
// non-ASCII characters left unescaped.
func writeJSON(path string, convs []RawConversation) error {
	raw := make([]json.RawMessage, len(convs))
	for i := range convs {
		raw[i] = convs[i].Raw
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

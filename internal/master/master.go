// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package master assembles book-formatted conversation files into one
// document, chaptered by the month encoded in each file's parent
// directory name.
package master

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/chatbook/pkg/types"
)

const (
	documentRule = 80
	chapterRule  = 60
	progressStep = 10
)

// DefaultBanner is the document banner when none is configured.
const DefaultBanner = "CONVERSATIONS MASTER BOOK"

// bookFile is one input file with its sort key.
type bookFile struct {
	date time.Time // zero when the parent directory is not "YYYY-MM"
	path string
	name string
}

// dateFromPath parses a file's immediate parent directory name as
// "YYYY-MM". Unparseable names yield the zero time, which sorts first.
func dateFromPath(path string) time.Time {
	dir := filepath.Base(filepath.Dir(path))
	t, err := time.Parse("2006-01", dir)
	if err != nil {
		return time.Time{}
	}
	return t
}

// chapterLabel is the chapter heading for a file date.
func chapterLabel(date time.Time) string {
	if date.IsZero() {
		return "Unknown Date"
	}
	return date.Format("January 2006")
}

// collect gathers all .txt files under inputDir with their sort keys.
func collect(inputDir string) ([]bookFile, error) {
	var files []bookFile
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		files = append(files, bookFile{date: dateFromPath(path), path: path, name: d.Name()})
		return nil
	})
	return files, err
}

// Assemble concatenates every .txt file under inputDir into outputPath in
// chronological order, inserting a chapter header whenever the month
// changes. Files without a parseable date sort first under "Unknown
// Date"; files with equal dates sort by filename. Progress and the final
// summary are reported on w.
func Assemble(inputDir, outputPath string, cfg types.MasterConfig, w io.Writer) error {
	if _, err := os.Stat(inputDir); err != nil {
		fmt.Fprintf(w, "Input directory does not exist: %s\n", inputDir)
		return nil
	}

	files, err := collect(inputDir)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", inputDir, err)
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].date.Equal(files[j].date) {
			return files[i].date.Before(files[j].date)
		}
		return files[i].name < files[j].name
	})

	banner := cfg.Banner
	if banner == "" {
		banner = DefaultBanner
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outputPath, err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	fmt.Fprintln(bw, strings.Repeat("=", documentRule))
	fmt.Fprintln(bw, banner)
	fmt.Fprintln(bw, strings.Repeat("=", documentRule))
	fmt.Fprintln(bw)

	currentChapter := ""
	count := 0
	for _, f := range files {
		label := chapterLabel(f.date)
		if label != currentChapter {
			currentChapter = label
			fmt.Fprintln(bw)
			fmt.Fprintln(bw, strings.Repeat("=", chapterRule))
			fmt.Fprintf(bw, "CHAPTER: %s\n", strings.ToUpper(label))
			fmt.Fprintln(bw, strings.Repeat("=", chapterRule))
			fmt.Fprintln(bw)
		}

		content, err := os.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.path, err)
		}
		bw.Write(content)
		fmt.Fprintf(bw, "\n\n%s\n\n", strings.Repeat("=", documentRule))

		count++
		if count%progressStep == 0 {
			fmt.Fprintf(w, "Processed %d conversations...\n", count)
		}
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, strings.Repeat("=", documentRule))
	fmt.Fprintf(bw, "END OF BOOK - TOTAL CONVERSATIONS: %d\n", count)
	fmt.Fprintln(bw, strings.Repeat("=", documentRule))

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	fmt.Fprintf(w, "Master book created: %s\n", outputPath)
	fmt.Fprintf(w, "Total conversations: %d\n", count)
	return nil
}

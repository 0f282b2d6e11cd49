// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs single-file converters over files or whole
// directory trees. Per-file failures are logged and do not stop a batch.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrSkipped is returned by a ConvertFunc that intentionally produced no
// output for an input (e.g. nothing to convert). The file is counted as
// skipped, not failed; the converter prints its own notice on w.
var ErrSkipped = errors.New("nothing to convert")

// ConvertFunc converts one input file to one output file, reporting any
// per-file notices on w. It must either write the output completely or
// leave no output at all.
type ConvertFunc func(inputPath, outputPath string, w io.Writer) error

// Status is the outcome of converting one file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result summarizes a batch run.
type Result struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the number of files processed.
func (r Result) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// File converts a single file, creating the output's parent directory
// first. Success and failure are reported on w; failures never propagate.
func File(inputPath, outputPath string, fn ConvertFunc, w io.Writer) Status {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(w, "Error converting %s: %v\n", inputPath, err)
			return StatusFailed
		}
	}

	err := fn(inputPath, outputPath, w)
	switch {
	case err == nil:
		fmt.Fprintf(w, "Converted: %s -> %s\n", inputPath, outputPath)
		return StatusConverted
	case errors.Is(err, ErrSkipped):
		return StatusSkipped
	default:
		fmt.Fprintf(w, "Error converting %s: %v\n", inputPath, err)
		return StatusFailed
	}
}

// Tree mirrors inputDir under outputDir, converting every file with
// extension inExt and writing it with extension outExt at the same
// relative path.
func Tree(inputDir, outputDir, inExt, outExt string, fn ConvertFunc, w io.Writer) (Result, error) {
	var result Result

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("creating output directory: %w", err)
	}

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), inExt) {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		outPath := filepath.Join(outputDir, strings.TrimSuffix(rel, inExt)+outExt)

		switch File(path, outPath, fn, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
		return nil
	})
	return result, err
}

// Run dispatches on the input path: a regular file converts directly to
// the output path, a directory converts as a mirrored tree. A nonexistent
// input prints a diagnostic and returns nil; per-file failures are logged
// and swallowed either way.
func Run(input, output, inExt, outExt string, fn ConvertFunc, w io.Writer) error {
	info, err := os.Stat(input)
	if err != nil {
		fmt.Fprintf(w, "Input path does not exist: %s\n", input)
		return nil
	}

	if !info.IsDir() {
		File(input, output, fn, w)
		return nil
	}

	result, err := Tree(input, output, inExt, outExt, fn, w)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return nil
}

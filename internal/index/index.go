// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package index persists the carved region list and the extractor's
// restart marker (§4.E). Both files are plain text so a partially written
// scan can be inspected or hand-edited without tooling.
package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Crozzers/drive-scanner/internal/carve"
)

// indexFileName and markerFileName are the on-disk names §4.E fixes.
const (
	indexFileName  = "index.txt"
	markerFileName = "last_write_index.txt"
)

// ErrIndexParseError wraps any malformed line in index.txt or
// last_write_index.txt. It is fatal: callers must abort startup rather
// than guess at recovery (§7).
var ErrIndexParseError = fmt.Errorf("index parse error")

// Store owns index.txt and last_write_index.txt beneath dir.
type Store struct {
	dir string
}

// Open returns a Store rooted at dir, creating dir if necessary. It does
// not read either file; call Load and LoadMarker explicitly.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("index: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) indexPath() string  { return filepath.Join(s.dir, indexFileName) }
func (s *Store) markerPath() string { return filepath.Join(s.dir, markerFileName) }

// Load reads every region recorded in index.txt. A missing file is not an
// error: it means scanning has never run here and Load returns an empty
// slice, matching a fresh start.
func (s *Store) Load() ([]carve.FileRegion, error) {
	f, err := os.Open(s.indexPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: open: %w", err)
	}
	defer f.Close()

	var regions []carve.FileRegion
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		region, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", ErrIndexParseError, indexFileName, lineNo, err)
		}
		regions = append(regions, region)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIndexParseError, indexFileName, err)
	}
	return regions, nil
}

func parseLine(line string) (carve.FileRegion, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return carve.FileRegion{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}
	start, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return carve.FileRegion{}, fmt.Errorf("start: %w", err)
	}
	end, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return carve.FileRegion{}, fmt.Errorf("end: %w", err)
	}
	kind, err := carve.ParseKind(parts[2])
	if err != nil {
		return carve.FileRegion{}, err
	}
	return carve.FileRegion{Start: start, End: end, Kind: kind}, nil
}

// Save atomically overwrites index.txt with regions, one "start,end,kind"
// line each, in the order given.
func (s *Store) Save(regions []carve.FileRegion) error {
	var sb strings.Builder
	for _, r := range regions {
		fmt.Fprintf(&sb, "%d,%d,%s\n", r.Start, r.End, r.Kind)
	}
	return writeAtomic(s.indexPath(), sb.String())
}

// LoadMarker returns the index of the last region successfully extracted.
// A missing or empty marker file means extraction has never run, and -1 is
// returned, so the extractor's "for i := marker + 1" loop starts at region
// 0 rather than skipping it.
func (s *Store) LoadMarker() (int, error) {
	data, err := os.ReadFile(s.markerPath())
	if os.IsNotExist(err) {
		return -1, nil
	}
	if err != nil {
		return -1, fmt.Errorf("index: read marker: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return -1, fmt.Errorf("%w: %s: %v", ErrIndexParseError, markerFileName, err)
	}
	if n < -1 {
		return -1, fmt.Errorf("%w: %s: negative marker %d", ErrIndexParseError, markerFileName, n)
	}
	return n, nil
}

// SaveMarker atomically overwrites last_write_index.txt with n.
func (s *Store) SaveMarker(n int) error {
	return writeAtomic(s.markerPath(), strconv.Itoa(n))
}

// Reset removes both files, the effect of the --fresh flag (§4.E). It
// leaves recovered/ and any report output untouched.
func (s *Store) Reset() error {
	for _, p := range []string{s.indexPath(), s.markerPath()} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("index: reset %s: %w", p, err)
		}
	}
	return nil
}

// writeAtomic writes content to a temp file in the same directory as path
// and renames it into place, so a crash mid-write never leaves path
// truncated or partially written.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("index: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("index: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("index: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("index: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("index: rename: %w", err)
	}
	return nil
}

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
package fs

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Crozzers/drive-scanner/pkg/reader"
)

// segmentedFile presents a set of split raw-image segments (e.g. a disk
// image dd'd in fixed-size chunks as image.001, image.002, ...) as a
// single contiguous device, so scan/recover/mount never need the segments
// joined on disk first.
type segmentedFile struct {
	files []*os.File
	mrs   *reader.MultiReadSeeker
	mu    sync.Mutex
	size  int64
}

// OpenSegments opens paths in order and presents them as one logical
// device. A single path behaves exactly like Open.
func OpenSegments(paths []string) (File, error) {
	if len(paths) == 1 {
		return Open(paths[0])
	}

	// segmentReadBufSize is large enough to absorb the scanner's sequential
	// sweep without each chunk read turning into its own syscall.
	const segmentReadBufSize = 64 * 1024

	files := make([]*os.File, 0, len(paths))
	readers := make([]io.ReadSeeker, 0, len(paths))
	sizes := make([]int64, 0, len(paths))

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	var total int64
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("opening segment %s: %w", p, err)
		}
		info, err := f.Stat()
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("stat segment %s: %w", p, err)
		}
		files = append(files, f)
		readers = append(readers, reader.NewBufferedReadSeeker(f, segmentReadBufSize))
		sizes = append(sizes, info.Size())
		total += info.Size()
	}

	return &segmentedFile{
		files: files,
		mrs:   reader.NewMultiReadSeeker(readers, sizes),
		size:  total,
	}, nil
}

func (s *segmentedFile) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mrs.Read(p)
}

// ReadAt seeks the shared cursor to off and reads, serialized by mu since
// MultiReadSeeker keeps a single position across its underlying segments.
// Scanner and Extractor never hold a persistent cursor of their own (each
// call carries an absolute offset), so this is the only synchronization
// this type needs.
func (s *segmentedFile) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.mrs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := s.mrs.Read(p)
	if err == io.EOF && n == len(p) {
		err = nil
	}
	return n, err
}

func (s *segmentedFile) Close() error {
	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *segmentedFile) Stat() (os.FileInfo, error) {
	return &segmentedFileInfo{size: s.size}, nil
}

type segmentedFileInfo struct{ size int64 }

func (i *segmentedFileInfo) Name() string       { return "" }
func (i *segmentedFileInfo) Size() int64        { return i.size }
func (i *segmentedFileInfo) Mode() os.FileMode  { return 0 }
func (i *segmentedFileInfo) ModTime() time.Time { return time.Time{} }
func (i *segmentedFileInfo) IsDir() bool        { return false }
func (i *segmentedFileInfo) Sys() any           { return nil }

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

// Package extractor implements §4.F: re-read each indexed region past the
// restart marker, revalidate it, and write it out under recovered/<kind>/.
package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/Crozzers/drive-scanner/internal/logger"
	"github.com/Crozzers/drive-scanner/internal/validate"
	ioutil "github.com/Crozzers/drive-scanner/pkg/util/io"
)

// Device is the read capability the extractor needs: targeted seeks into
// the device, never sequential sweeping.
type Device interface {
	io.ReaderAt
}

// PostProcessor receives every newly written file's path and kind. It may
// move or rewrite the file; errors are logged, never fatal, since
// post-processing is an external collaborator (§6) and its failure must
// not jeopardize the rest of the batch.
type PostProcessor interface {
	Process(path string, kind carve.Kind) error
}

// NopPostProcessor does nothing. It is the default collaborator.
type NopPostProcessor struct{}

func (NopPostProcessor) Process(string, carve.Kind) error { return nil }

// Extractor writes carved regions to outDir/recovered/<kind>/<N>.<kind>.
type Extractor struct {
	dev    Device
	store  *index.Store
	log    *logger.Logger
	outDir string
	post   PostProcessor
}

// New builds an Extractor writing beneath outDir/recovered.
func New(dev Device, store *index.Store, log *logger.Logger, outDir string, post PostProcessor) *Extractor {
	if post == nil {
		post = NopPostProcessor{}
	}
	return &Extractor{dev: dev, store: store, log: log, outDir: outDir, post: post}
}

// Run extracts every region in regions whose index exceeds marker,
// advancing and persisting the marker as it goes. It is safe to call
// repeatedly with an unchanged index and marker: it then does nothing
// (§4.F idempotence).
func (e *Extractor) Run(regions []carve.FileRegion, marker int) (newMarker int, err error) {
	newMarker = marker
	for i := marker + 1; i < len(regions); i++ {
		region := regions[i]

		if err := e.writeOne(i, region); err != nil {
			return newMarker, fmt.Errorf("extractor: region %d: %w", i, err)
		}
		newMarker = i
	}

	if err := e.store.SaveMarker(newMarker); err != nil {
		return newMarker, fmt.Errorf("extractor: persisting marker: %w", err)
	}
	return newMarker, nil
}

func (e *Extractor) writeOne(n int, region carve.FileRegion) error {
	buf := make([]byte, region.Size())
	if _, err := readFull(e.dev, buf, int64(region.Start)); err != nil {
		return fmt.Errorf("reading region: %w", err)
	}

	if fn := validate.For(region.Kind); fn != nil {
		if err := fn(bytes.NewReader(buf), int64(len(buf))); err != nil {
			e.log.Warnf("region %d (%s) failed validation: %v", n, region.Kind, err)
			return nil
		}
	}

	dir := filepath.Join(e.outDir, "recovered", string(region.Kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.%s", n, region.Kind))
	if err := ioutil.CopyFile(path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	if err := e.post.Process(path, region.Kind); err != nil {
		e.log.Warnf("post-processing %s failed: %v", path, err)
	}
	return nil
}

func readFull(dev Device, buf []byte, at int64) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := dev.ReadAt(buf[total:], at+int64(total))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

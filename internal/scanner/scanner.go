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

// Package scanner implements the streaming sweep (§4.D): walk the device
// sequentially with a small rolling buffer, find start signatures in
// priority order, hand candidates to the format parsers in internal/carve,
// and persist accepted regions to the index.
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/Crozzers/drive-scanner/internal/logger"
)

// Device is the minimal capability the scanner needs: positioned reads.
// The scanner never holds a stateful cursor on it; every read names its
// absolute offset.
type Device interface {
	io.ReaderAt
}

const (
	chunkSize      = 1024
	gigabyte       = 1 << 30
	saveEveryAdded = 100
)

// Options tunes the sweep. DefaultOptions returns the standard settings;
// New replaces a non-positive ChunkSize with the default.
type Options struct {
	ChunkSize int
}

func DefaultOptions() Options {
	return Options{ChunkSize: chunkSize}
}

// Scanner owns the region list for one scan. Construct with New, seed
// with regions already on disk via SetRegions, then call Run.
type Scanner struct {
	dev     Device
	reg     *carve.Registry
	store   *index.Store
	log     *logger.Logger
	opts    Options
	regions []carve.FileRegion

	// OnGigabyteBoundary is invoked every time the sweep offset crosses a
	// further 1 GB mark, after the index has been persisted (§4.D). It is
	// the scanner's hook for triggering an extraction flush; nil disables
	// the hook.
	OnGigabyteBoundary func([]carve.FileRegion) error

	// OnProgress, if set, is called after every chunk read with the sweep's
	// current absolute offset and the number of regions found so far. It
	// exists purely for UI feedback (e.g. a progress bar) and never affects
	// scanning behavior.
	OnProgress func(offset uint64, filesFound int)
}

// New builds a Scanner over dev using the standard format registry.
func New(dev Device, store *index.Store, log *logger.Logger, opts Options) *Scanner {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunkSize
	}
	return &Scanner{
		dev:   dev,
		reg:   carve.NewRegistry(),
		store: store,
		log:   log,
		opts:  opts,
	}
}

// SetRegions seeds the scanner with regions already known (loaded from a
// prior index.txt), so Run resumes the sweep past the last accepted
// region instead of rescanning from the start.
func (s *Scanner) SetRegions(regions []carve.FileRegion) {
	s.regions = append([]carve.FileRegion(nil), regions...)
}

// Regions returns the region list accumulated so far.
func (s *Scanner) Regions() []carve.FileRegion {
	return s.regions
}

// Run sweeps the device until exhausted or ctx is cancelled. On
// cancellation it finishes the parser invocation in flight, persists the
// index, and returns ctx.Err(). A clean end-of-device also persists the
// index before returning nil.
func (s *Scanner) Run(ctx context.Context) error {
	var (
		pos        int64
		buf        []byte
		boundariesHit = s.boundaryAlreadyCrossed()
		savedAt    = len(s.regions)
	)

	for {
		select {
		case <-ctx.Done():
			if err := s.store.Save(s.regions); err != nil {
				return fmt.Errorf("scanner: persisting on cancel: %w", err)
			}
			return ctx.Err()
		default:
		}

		var newPos int64
		var newBuf []byte
		var err error

		switch {
		case len(s.regions) > 0 && s.regions[len(s.regions)-1].End > uint64(pos-int64(len(buf))):
			lastEnd := int64(s.regions[len(s.regions)-1].End)
			newBuf, err = s.readChunk(lastEnd, s.opts.ChunkSize)
			newPos = lastEnd + int64(len(newBuf))
		case len(buf) > 0:
			tail := buf
			if len(tail) > carve.MaxCarryForward {
				tail = tail[len(tail)-carve.MaxCarryForward:]
			}
			var fresh []byte
			fresh, err = s.readChunk(pos, s.opts.ChunkSize)
			if len(fresh) > 0 {
				// The carried tail was already searched; at end of device
				// leave newBuf empty so the sweep ends.
				newBuf = append(append([]byte(nil), tail...), fresh...)
			}
			newPos = pos + int64(len(fresh))
		default:
			newBuf, err = s.readChunk(pos, s.opts.ChunkSize)
			newPos = pos + int64(len(newBuf))
		}

		if err != nil && err != io.EOF {
			_ = s.store.Save(s.regions)
			return fmt.Errorf("scanner: device read: %w", err)
		}

		buf, pos = newBuf, newPos
		if len(buf) == 0 {
			break
		}

		offset := uint64(pos) - uint64(len(buf))

		if s.OnProgress != nil {
			s.OnProgress(offset, len(s.regions))
		}

		gb := offset / gigabyte
		if gb > boundariesHit {
			boundariesHit = gb
			if err := s.store.Save(s.regions); err != nil {
				return fmt.Errorf("scanner: periodic save: %w", err)
			}
			savedAt = len(s.regions)
			if s.OnGigabyteBoundary != nil {
				if err := s.OnGigabyteBoundary(s.regions); err != nil {
					return fmt.Errorf("scanner: gigabyte-boundary flush: %w", err)
				}
			}
		}

		region, newPosOverride, consumedBuf, found := s.scanBuffer(buf, offset)
		if found {
			s.regions = append(s.regions, region)
			if len(s.regions)-savedAt > saveEveryAdded {
				if err := s.store.Save(s.regions); err != nil {
					return fmt.Errorf("scanner: index save: %w", err)
				}
				savedAt = len(s.regions)
			}
			buf = nil
			pos = int64(region.End)
			continue
		}
		if newPosOverride >= 0 {
			// A JPEG candidate failed: jump the device cursor past it and
			// drop the buffer, matching §7's SpuriousSignature recovery.
			pos = newPosOverride
			buf = nil
			continue
		}
		if consumedBuf {
			// A non-JPEG candidate's parser failed. It read through its own
			// section reader, so pos is unchanged; keep sweeping from here.
			continue
		}
	}

	if err := s.store.Save(s.regions); err != nil {
		return fmt.Errorf("scanner: final save: %w", err)
	}
	return nil
}

func (s *Scanner) boundaryAlreadyCrossed() uint64 {
	if len(s.regions) == 0 {
		return 0
	}
	return s.regions[len(s.regions)-1].End / gigabyte
}

func (s *Scanner) readChunk(pos int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := s.dev.ReadAt(buf, pos)
	if err != nil && err != io.EOF {
		return buf[:read], err
	}
	return buf[:read], nil
}

// scanBuffer implements §4.D steps 6-8 for a single buffer: search
// signatures in priority order (ZIP, PDF, JPEG variants, PNG), invoke the
// matching parser, and report the outcome. Returns:
//   - (region, _, _, true) on an accepted region.
//   - (_, jumpTo, _, false) when a JPEG candidate failed and the device
//     cursor must jump to jumpTo with the buffer dropped.
//   - (_, -1, true, false) when some other candidate's parser ran and
//     failed (the device cursor is left where it was).
//   - (_, -1, false, false) when nothing matched at all.
func (s *Scanner) scanBuffer(buf []byte, offset uint64) (carve.FileRegion, int64, bool, bool) {
	if idx := bytes.Index(buf, carve.ZIPStartSig()); idx >= 0 {
		start := offset + uint64(idx)
		prefix := len(carve.ZIPStartSig()) - 1
		if region, ok := s.attempt(carve.KindZIP, carve.ScanZIP, start, prefix); ok {
			return region, -1, true, true
		}
		return carve.FileRegion{}, -1, true, false
	}

	if idx := bytes.Index(buf, carve.PDFStartSig()); idx >= 0 {
		start := offset + uint64(idx)
		prefix := len(carve.PDFStartSig()) - 1
		if region, ok := s.attempt(carve.KindPDF, carve.ScanPDF, start, prefix); ok {
			return region, -1, true, true
		}
		return carve.FileRegion{}, -1, true, false
	}

	for _, sig := range carve.JPEGStartSigs() {
		idx := bytes.Index(buf, sig)
		if idx < 0 {
			continue
		}
		start := offset + uint64(idx)
		if region, ok := s.attempt(carve.KindJPEG, carve.ScanJPEG, start, jpegPrefix); ok {
			return region, -1, true, true
		}
		s.log.Debugf("spurious JPEG signature at offset %d, skipping 4 bytes", start)
		return carve.FileRegion{}, int64(start) + 4, false, false
	}

	if idx := bytes.Index(buf, carve.PNGStartSig()); idx >= 0 {
		start := offset + uint64(idx)
		prefix := len(carve.PNGStartSig()) - 1
		if region, ok := s.attempt(carve.KindPNG, carve.ScanPNG, start, prefix); ok {
			return region, -1, true, true
		}
		return carve.FileRegion{}, -1, true, false
	}

	return carve.FileRegion{}, -1, false, false
}

// jpegPrefix is how many bytes past a matched JPEG start signature the
// parser actually begins reading from: past the 2-byte SOI marker only,
// per §4.B.1 step 1, regardless of which 4-byte variant matched.
const jpegPrefix = 2

// attempt positions a fresh carve.Reader prefixLen bytes past start and
// runs parse, logging and returning false on any parser error.
func (s *Scanner) attempt(kind carve.Kind, parse func(*carve.Reader) (uint64, error), start uint64, prefixLen int) (carve.FileRegion, bool) {
	bodyStart := int64(start) + int64(prefixLen)
	sr := io.NewSectionReader(s.dev, bodyStart, 1<<62)
	r := carve.NewReader(sr, 4096)

	bodyLen, err := parse(r)
	if err != nil {
		s.log.Debugf("%s candidate at %d rejected: %v", kind, start, err)
		return carve.FileRegion{}, false
	}

	region := carve.FileRegion{Start: start, End: start + uint64(prefixLen) + bodyLen, Kind: kind}
	if !region.Valid() {
		s.log.Debugf("%s candidate at %d produced invalid region, dropping", kind, start)
		return carve.FileRegion{}, false
	}
	s.log.Infof("%s found: [%d, %d), size %d", kind, region.Start, region.End, region.Size())
	return region, true
}

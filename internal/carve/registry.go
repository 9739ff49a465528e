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
package carve

import (
	"bytes"
	"io"

	"github.com/Crozzers/drive-scanner/pkg/table"
)

// ParseFunc consumes r, positioned where the format's parser starts
// reading (two bytes past the signature start for JPEG, one byte short of
// the signature's end for the other formats), and returns how many bytes
// it consumed up to the end of the candidate file.
type ParseFunc func(r *Reader) (uint64, error)

// Header describes one recognized start signature: the literal bytes, the
// Kind it carves into, and the parser that walks the body once the
// signature has matched.
type Header struct {
	Sig   []byte
	Kind  Kind
	Parse ParseFunc
}

// Registry resolves candidate start signatures to their Header in the
// priority order §4.D mandates: ZIP before PDF before JPEG before PNG, so
// that a ZIP-embedded PDF or image is never carved out as its own separate
// file.
type Registry struct {
	order []Header
	table *table.PrefixTable[Header]
}

// NewRegistry builds the standard registry for the four supported formats.
func NewRegistry() *Registry {
	reg := &Registry{table: table.New[Header]()}

	reg.add(Header{Sig: zipStartSig, Kind: KindZIP, Parse: ScanZIP})
	reg.add(Header{Sig: pdfStartSig, Kind: KindPDF, Parse: ScanPDF})
	for _, sig := range jpegStartSigs {
		reg.add(Header{Sig: sig, Kind: KindJPEG, Parse: ScanJPEG})
	}
	reg.add(Header{Sig: pngStartSig, Kind: KindPNG, Parse: ScanPNG})

	return reg
}

func (reg *Registry) add(h Header) {
	reg.order = append(reg.order, h)
	reg.table.Insert(h.Sig, h)
}

// Headers returns every registered signature in priority order.
func (reg *Registry) Headers() []Header {
	return append([]Header(nil), reg.order...)
}

// MaxSigLen returns the length of the longest registered start signature.
func (reg *Registry) MaxSigLen() int {
	n := 0
	for _, h := range reg.order {
		if len(h.Sig) > n {
			n = len(h.Sig)
		}
	}
	return n
}

// Match checks whether buf begins with a registered start signature,
// returning the matching Header in priority order. buf must be at least
// MaxSigLen() bytes, or as many as are available at end of stream.
func (reg *Registry) Match(buf []byte) (Header, bool) {
	for _, h := range reg.order {
		if len(buf) >= len(h.Sig) && string(buf[:len(h.Sig)]) == string(h.Sig) {
			return h, true
		}
	}
	return Header{}, false
}

// Carve runs h's parser against r, which must be positioned right after
// h's start signature, and returns the resulting region's end offset
// relative to the signature start.
func Carve(h Header, r io.Reader, bufSize int) (uint64, error) {
	skip := len(h.Sig)
	if h.Kind == KindJPEG {
		// ScanJPEG starts at the marker right after SOI, which is the tail
		// of the matched signature, so feed those bytes back in first.
		skip = 2
		r = io.MultiReader(bytes.NewReader(h.Sig[skip:]), r)
	}
	pr := NewReader(r, bufSize)
	end, err := h.Parse(pr)
	if err != nil {
		return 0, err
	}
	return uint64(skip) + end, nil
}

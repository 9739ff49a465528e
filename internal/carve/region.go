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

import "fmt"

// Kind identifies one of the four supported carved formats.
type Kind string

const (
	KindJPEG Kind = "jpg"
	KindPNG  Kind = "png"
	KindZIP  Kind = "zip"
	KindPDF  Kind = "pdf"
)

// Cap returns the per-format size cap (§4.B) in bytes, beyond which a
// parser must abandon the candidate.
func (k Kind) Cap() uint64 {
	switch k {
	case KindJPEG:
		return 5 * 1 << 20
	case KindPNG:
		return 5 * 1 << 20
	case KindZIP:
		return 50 * 1 << 20
	case KindPDF:
		return 10 * 1 << 20
	}
	return 0
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindJPEG, KindPNG, KindZIP, KindPDF:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown region kind: %q", s)
}

// FileRegion is an accepted (start, end, kind) candidate, the central
// record of the carving pipeline (§3).
type FileRegion struct {
	Start uint64
	End   uint64
	Kind  Kind
}

// Size returns the number of bytes the region spans.
func (r FileRegion) Size() uint64 {
	return r.End - r.Start
}

// Valid reports whether the region satisfies the data-model invariants of
// §3: end strictly after start, and within the kind's size cap.
func (r FileRegion) Valid() bool {
	return r.End > r.Start && r.Size() <= r.Kind.Cap()
}

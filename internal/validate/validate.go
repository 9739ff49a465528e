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

// Package validate holds the per-format structural checks run when
// extracting a region (§4.C). Validation is advisory during scanning and
// authoritative during extraction: a region that fails validation is never
// dropped from the index, but the extractor will not write it out.
package validate

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/Crozzers/drive-scanner/internal/carve"
)

// ErrValidationFailed wraps every rejection reason below so callers can
// test with errors.Is without caring which format produced it.
var ErrValidationFailed = errors.New("validation failed")

// minIconDimension is the square size at or under which a decoded image is
// treated as an icon/thumbnail rather than a recovered photo, and
// rejected.
const minIconDimension = 64

// Func validates the bytes read from r, which spans exactly one region's
// (start, end) range.
type Func func(r io.Reader, size int64) error

// For returns the validator for kind, or nil if the kind carries no
// validation (none of the four supported kinds fall in that case).
func For(kind carve.Kind) Func {
	switch kind {
	case carve.KindJPEG, carve.KindPNG:
		return Image
	case carve.KindZIP:
		return ZIP
	case carve.KindPDF:
		return PDF
	}
	return nil
}

// Image decodes r as an image and rejects square icon-sized results. A
// region that isn't a decodable image at all is exactly what
// SpuriousSignature carving can produce: a coincidental run of bytes that
// merely looked like a format's magic numbers. The full pixel data is
// decoded, not just the header, so a truncated image with an intact header
// but corrupt scan data is also rejected, matching the reference
// implementation's img.verify().
func Image(r io.Reader, _ int64) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == h && w <= minIconDimension {
		return fmt.Errorf("%w: icon-sized image (%dx%d)", ErrValidationFailed, w, h)
	}
	return nil
}

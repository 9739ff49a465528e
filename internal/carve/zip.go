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

// zipScanWindow is the chunk size the EOCD search slides forward by.
const zipScanWindow = 1024

// zipEOCDFixedLen is the length of the End Of Central Directory record
// after its 4-byte signature, up to and including the 2-byte comment
// length field (§4.B.3).
const zipEOCDFixedLen = 18

// ScanZIP implements §4.B.3. Local file headers say nothing about where the
// archive ends, so carving a ZIP means finding its End Of Central Directory
// record instead and trusting its variable-length comment field. r is
// positioned at start+3, one byte short of the 4-byte local file header
// signature (matching the reference implementation's window convention).
func ScanZIP(r *Reader) (uint64, error) {
	for r.BytesRead() <= KindZIP.Cap() {
		found, err := SeekAt(r, zipEOCDSig, zipScanWindow)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		if !found {
			continue
		}

		if _, err := r.Discard(len(zipEOCDSig)); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}

		fixed, err := r.Peek(zipEOCDFixedLen)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		commentLen := int(fixed[zipEOCDFixedLen-2]) | int(fixed[zipEOCDFixedLen-1])<<8

		if _, err := r.Discard(zipEOCDFixedLen + commentLen); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		return r.BytesRead(), nil
	}
	return 0, ErrCapExceeded
}

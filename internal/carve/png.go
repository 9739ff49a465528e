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

// pngScanWindow is the chunk size §4.B.2 slides forward by while looking
// for the fixed 12-byte IEND trailer.
const pngScanWindow = 1024

// ScanPNG implements §4.B.2. PNG has no internal chunk lengths worth
// trusting for carving purposes (a truncated or corrupted length field
// would derail the walk), so the scan simply looks for the fixed IEND
// signature byte-for-byte. r is positioned at start+7, one byte short of
// the full 8-byte PNG start signature (matching the reference
// implementation's window convention).
func ScanPNG(r *Reader) (uint64, error) {
	for r.BytesRead() <= KindPNG.Cap() {
		found, err := SeekAt(r, pngEndSig, pngScanWindow)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		if found {
			if _, err := r.Discard(len(pngEndSig)); err != nil {
				return 0, err
			}
			return r.BytesRead(), nil
		}
	}
	return 0, ErrCapExceeded
}

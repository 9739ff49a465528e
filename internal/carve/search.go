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
)

// SeekAt searches for sig within the next n bytes of r, advancing r so that
// it sits right at the start of the match. It returns false (without error)
// if sig was not found within n bytes, and false with io.EOF if the stream
// ended without a match. This is the "find pattern with rolling window,
// capped at N bytes" primitive §9 asks every parser to share: PNG's and
// ZIP's terminators and JPEG's EOI search (scanForEOI) use it; ScanPDF runs
// its own window loop because it tracks two signatures at once.
//
// Callers such as ScanPNG and ScanZIP call SeekAt repeatedly, once per
// window, advancing r a window at a time until the cap is hit. A match can
// straddle the boundary between two such windows, so on a miss SeekAt only
// discards n-(len(sig)-1) bytes, leaving the trailing len(sig)-1 bytes
// unconsumed: the next call's Peek naturally re-reads them as the prefix of
// its own window, carrying the overlap forward exactly as ScanPDF's
// hand-rolled loop does.
func SeekAt(r *Reader, sig []byte, n int) (bool, error) {
	pad := len(sig) - 1

	peeked, err := r.Peek(n)
	if err != nil && err != io.EOF {
		return false, err
	}

	if idx := bytes.Index(peeked, sig); idx >= 0 {
		_, err := r.Discard(idx)
		return true, err
	}

	if err == io.EOF {
		if _, derr := r.Discard(len(peeked)); derr != nil {
			return false, derr
		}
		return false, io.EOF
	}

	discard := n - pad
	if discard < 0 {
		discard = 0
	}
	_, err = r.Discard(discard)
	return false, err
}

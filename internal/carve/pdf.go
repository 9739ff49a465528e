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
	"fmt"
	"io"
)

const pdfScanWindow = 1024

// ScanPDF implements §4.B.4. PDFs routinely embed other PDFs (attachments,
// linearized duplicate bodies), so a naive search for the first %%EOF
// undercounts the file. ScanPDF instead tracks a nesting depth: every
// further %PDF- it passes increments depth, and every %%EOF decrements it.
// The %%EOF that would take depth below zero is the one that closes the
// file carving started at, since there is no enclosing start left to
// match it against. r is positioned at start+4, one byte short of the
// 5-byte %PDF- signature (matching the reference implementation's window
// convention).
func ScanPDF(r *Reader) (uint64, error) {
	depth := 0
	pad := len(pdfStartSig) - 1 // both signatures are 5 bytes
	buf := make([]byte, pad+pdfScanWindow)
	first := true

	for r.BytesRead() <= KindPDF.Cap() {
		if !first {
			copy(buf, buf[len(buf)-pad:])
		}

		peeked, err := r.Peek(len(buf) - pad)
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		m := len(peeked)
		copy(buf[pad:], peeked)

		var search []byte
		if first {
			search = buf[pad : pad+m]
		} else {
			search = buf[:pad+m]
		}

		startIdx := bytes.Index(search, pdfStartSig)
		endIdx := bytes.Index(search, pdfEndSig)

		matchIdx, isStart := -1, false
		switch {
		case startIdx < 0 && endIdx < 0:
			// no match in this window
		case startIdx < 0:
			matchIdx, isStart = endIdx, false
		case endIdx < 0:
			matchIdx, isStart = startIdx, true
		case startIdx < endIdx:
			matchIdx, isStart = startIdx, true
		default:
			matchIdx, isStart = endIdx, false
		}

		if matchIdx >= 0 {
			discard := matchIdx
			if !first {
				discard -= pad
			}
			sigLen := len(pdfEndSig) // both signatures are 5 bytes
			if discard < 0 {
				// The match straddles the carried-over boundary: its first
				// -discard bytes were consumed with the previous window.
				sigLen += discard
				discard = 0
			}
			if _, err := r.Discard(discard); err != nil {
				return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
			}

			if isStart {
				if _, err := r.Discard(sigLen); err != nil {
					return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
				}
				depth++
			} else {
				if _, err := r.Discard(sigLen); err != nil {
					return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
				}
				if depth == 0 {
					return r.BytesRead(), nil
				}
				depth--
			}

			first = true
			continue
		}

		if err == io.EOF {
			return 0, fmt.Errorf("%w: no closing %%%%EOF", ErrCapExceeded)
		}

		if _, err := r.Discard(m); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		first = false
	}
	return 0, ErrCapExceeded
}

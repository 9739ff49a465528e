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
	"errors"
	"fmt"
)

// ErrSpuriousSignature marks a candidate whose bytes do not actually
// continue into a valid instance of the format (§7, SpuriousSignature).
var ErrSpuriousSignature = errors.New("spurious signature")

// ErrCapExceeded marks a candidate that ran past its format's size cap
// without terminating (§7, CapExceeded).
var ErrCapExceeded = errors.New("carve: size cap exceeded")

const jpegSOSMarker = 0xDA

// ScanJPEG implements §4.B.1. r must be positioned at start+2, past the
// SOI marker FF D8 only: the first two bytes it reads are the marker that
// completed the matched 4-byte start signature (e.g. FF DB).
//
// It walks JPEG segments (marker + length) until the end-of-image marker
// FF D9, treating FF DA (Start Of Scan) specially: its entropy-coded
// payload has no declared length, so once its header is skipped, ScanJPEG
// slides an 1024-byte window looking for the literal bytes FF D9. Because
// byte-stuffed 0xFF bytes inside scan data are always followed by 0x00
// (never 0xD9), this search cannot mistake stuffed data for the
// terminator.
func ScanJPEG(r *Reader) (uint64, error) {
	tmp := make([]byte, 2)

	for {
		if _, err := readFull(r, tmp); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}

		if tmp[0] != 0xFF {
			return 0, fmt.Errorf("%w: desynchronized marker", ErrSpuriousSignature)
		}

		marker := tmp[1]

		if marker == 0xD9 { // EOI
			return r.BytesRead(), nil
		}
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			// Stand-alone markers: SOI (shouldn't recur) and restart markers.
			continue
		}

		var lenBuf [2]byte
		if _, err := readFull(r, lenBuf[:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		length := int(lenBuf[0])<<8 | int(lenBuf[1])
		if length < 2 {
			return 0, fmt.Errorf("%w: short segment length", ErrSpuriousSignature)
		}

		if _, err := r.Discard(length - 2); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}

		if marker == jpegSOSMarker {
			end, found, err := scanForEOI(r)
			if err != nil {
				return 0, err
			}
			if !found {
				return 0, fmt.Errorf("%w: no EOI after SOS", ErrCapExceeded)
			}
			return end, nil
		}

		if r.BytesRead() > KindJPEG.Cap() {
			return 0, ErrCapExceeded
		}
	}
}

// scanForEOI slides 1024-byte windows looking for the literal FF D9
// sequence, as step 2 of §4.B.1's SOS handling specifies.
func scanForEOI(r *Reader) (uint64, bool, error) {
	const window = 1024
	for r.BytesRead() <= KindJPEG.Cap() {
		found, err := SeekAt(r, jpegEOIMarker, window)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %v", ErrSpuriousSignature, err)
		}
		if found {
			if _, err := r.Discard(len(jpegEOIMarker)); err != nil {
				return 0, false, err
			}
			return r.BytesRead(), true, nil
		}
	}
	return 0, false, nil
}

func readFull(r *Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

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

// Package carve implements the signature table, format parsers, and the
// registry that ties both together (§4.A, §4.B).
package carve

// Signature constants, bit-exact per §6. The longest start signature is 8
// bytes (PNG); the longest end signature is 12 bytes, so 11 bytes of carry-forward
// between scan windows suffices to never miss a signature straddling a
// chunk boundary.
var (
	pngStartSig = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	pngEndSig   = []byte{0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}

	// JPEG has four recognized start variants; all share the FF D8 FF
	// prefix and differ only in the fourth byte.
	jpegStartSigs = [][]byte{
		{0xFF, 0xD8, 0xFF, 0xDB},
		{0xFF, 0xD8, 0xFF, 0xE0},
		{0xFF, 0xD8, 0xFF, 0xEE},
		{0xFF, 0xD8, 0xFF, 0xE1},
	}
	jpegEOIMarker = []byte{0xFF, 0xD9}

	zipStartSig = []byte{0x50, 0x4B, 0x03, 0x04}
	zipEOCDSig  = []byte{0x50, 0x4B, 0x05, 0x06}

	pdfStartSig = []byte("%PDF-")
	pdfEndSig   = []byte("%%EOF")
)

// MaxCarryForward is the number of trailing bytes of a scan window that
// must be preserved across a chunk read so that no multi-byte signature is
// missed at a boundary (§3, ScanCursor invariant).
const MaxCarryForward = 11

// ZIPStartSig, PDFStartSig, JPEGStartSigs and PNGStartSig expose the
// signature literals to callers outside the package (the scanner's
// signature search) without duplicating the bit-exact constants.
func ZIPStartSig() []byte    { return zipStartSig }
func PDFStartSig() []byte    { return pdfStartSig }
func PNGStartSig() []byte    { return pngStartSig }
func JPEGStartSigs() [][]byte { return jpegStartSigs }

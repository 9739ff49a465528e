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
	"bufio"
	"io"
)

// Reader wraps a bufio.Reader with a running count of bytes consumed and a
// Peek that parsers use to look ahead without committing. Parsers never see
// the device's absolute offset; they only see bytes relative to the start
// they were handed, which is what makes them pure functions of
// (device, start) per §4.B.
type Reader struct {
	buf *bufio.Reader
	n   uint64
}

// NewReader builds a Reader over r, buffered to at least bufSize bytes so
// that Peek(bufSize) never fails for lack of buffer capacity.
func NewReader(r io.Reader, bufSize int) *Reader {
	return &Reader{
		buf: bufio.NewReaderSize(r, bufSize),
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.n += uint64(n)
	return n, err
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.buf.ReadByte()
	if err == nil {
		r.n++
	}
	return b, err
}

// Discard skips n bytes forward, counting them as read.
func (r *Reader) Discard(n int) (int, error) {
	discarded, err := r.buf.Discard(n)
	r.n += uint64(discarded)
	return discarded, err
}

// Peek returns the next n bytes without advancing BytesRead.
func (r *Reader) Peek(n int) ([]byte, error) {
	return r.buf.Peek(n)
}

// BytesRead returns the total number of bytes consumed from the start of
// the candidate, i.e. the offset the parser would be at if it seeked back
// to start and read forward sequentially.
func (r *Reader) BytesRead() uint64 {
	return r.n
}

func (r *Reader) BufferSize() int {
	return r.buf.Size()
}

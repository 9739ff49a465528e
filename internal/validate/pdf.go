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
package validate

import (
	"bytes"
	"fmt"
	"io"
)

// PDF runs a minimal structural check: a "trailer" keyword or a "/Root"
// entry somewhere in the data, and a final startxref whose offset lies
// within the data. It does not check that the offset lands on a
// cross-reference section. This is far short of a conforming parser, but catches the
// common carving failure mode of a spurious "%PDF-"/"%%EOF" bracket around
// unrelated bytes with no real object structure inside.
func PDF(r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if !bytes.Contains(data, []byte("trailer")) && !bytes.Contains(data, []byte("/Root")) {
		return fmt.Errorf("%w: no trailer or cross-reference stream found", ErrValidationFailed)
	}

	idx := bytes.LastIndex(data, []byte("startxref"))
	if idx < 0 {
		return fmt.Errorf("%w: missing startxref", ErrValidationFailed)
	}

	rest := bytes.TrimLeft(data[idx+len("startxref"):], "\r\n \t")
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return fmt.Errorf("%w: startxref has no offset", ErrValidationFailed)
	}

	var offset int
	for _, c := range rest[:end] {
		offset = offset*10 + int(c-'0')
	}
	if offset < 0 || offset >= len(data) {
		return fmt.Errorf("%w: startxref offset %d out of range", ErrValidationFailed, offset)
	}
	return nil
}

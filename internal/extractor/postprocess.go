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
package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Crozzers/drive-scanner/internal/carve"
)

// officeExtByProgram maps the program name the `file` command reports for
// an Office Open XML container to the extension it should be renamed to.
var officeExtByProgram = map[string]string{
	"word":       "docx",
	"excel":      "xlsx",
	"powerpoint": "pptx",
}

var officeRe = regexp.MustCompile(`(?i)microsoft (\w+) 2007\+`)

// FileCommandPostProcessor shells out to the `file` command (§6) to
// reclassify a recovered ZIP that is actually a modern Office document,
// moving it to recovered/office/<stem>.<ext>. It is not wired in by
// default; callers opt in explicitly since it depends on an external
// binary being present on PATH.
type FileCommandPostProcessor struct{}

func (FileCommandPostProcessor) Process(path string, kind carve.Kind) error {
	if kind != carve.KindZIP {
		return nil
	}

	out, err := exec.Command("file", path).Output()
	if err != nil {
		return fmt.Errorf("postprocess: running file(1): %w", err)
	}

	_, desc, found := strings.Cut(string(out), ": ")
	if !found {
		return nil
	}

	match := officeRe.FindStringSubmatch(desc)
	if match == nil {
		return nil
	}

	ext, ok := officeExtByProgram[strings.ToLower(match[1])]
	if !ok {
		return nil
	}

	officeDir := filepath.Join(filepath.Dir(filepath.Dir(path)), "office")
	if err := os.MkdirAll(officeDir, 0o755); err != nil {
		return fmt.Errorf("postprocess: create office dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dest := filepath.Join(officeDir, stem+"."+ext)
	return os.Rename(path, dest)
}

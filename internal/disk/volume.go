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

// Package disk holds the small amount of platform path handling that
// survives from partition discovery: turning whatever the user typed on
// the command line into a path fs.Open can hand the OS. Partition and
// MBR/FAT parsing themselves are out of scope (see DESIGN.md).
package disk

import (
	"fmt"
	"regexp"
	"runtime"
	"strings"
)

var driveLetterRe = regexp.MustCompile(`(?i)^[a-z]:?\\?$`)

// NormalizeVolumePath turns a bare drive letter like "E" or "E:" into the
// \\.\E: device path Windows raw reads require, and leaves every other
// input (device paths, image file paths, Unix device nodes) untouched.
func NormalizeVolumePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("disk: empty volume path")
	}
	if runtime.GOOS != "windows" {
		return path, nil
	}
	if strings.HasPrefix(path, `\\.\`) {
		return path, nil
	}
	if driveLetterRe.MatchString(path) {
		letter := strings.ToUpper(strings.TrimRight(path, `:\`))
		return fmt.Sprintf(`\\.\%s:`, letter), nil
	}
	return path, nil
}

// NormalizeVolumePaths applies NormalizeVolumePath to every entry in
// paths, for commands that accept a drive followed by further split-image
// segments.
func NormalizeVolumePaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		normalized, err := NormalizeVolumePath(p)
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}

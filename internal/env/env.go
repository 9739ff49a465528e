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

// Package env carries build-time identity stamped in via -ldflags, surfaced
// by the startup banner in cmd/main.go and, for AppName and Version, by the
// creator block of every DFXML report.
package env

import "fmt"

// Version, CommitHash and BuildTime default to "dev"/"unknown" and are
// overridden at build time with:
//
//	go build -ldflags "-X github.com/Crozzers/drive-scanner/internal/env.Version=1.2.3 ..."
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

// AppName is the binary's display name, used as the root command's name
// and help text and in DFXML reports.
const AppName = "driglet"

// String renders a one-line identity banner.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", AppName, Version, CommitHash, BuildTime)
}

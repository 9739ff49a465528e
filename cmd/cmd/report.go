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
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/Crozzers/drive-scanner/internal/env"
	"github.com/Crozzers/drive-scanner/pkg/dfxml"
)

// writeDFXMLReport emits a best-effort DFXML side-report alongside the
// primary index. It never returns a fatal error to the caller: failures
// (e.g. a read-only output directory) are advisory only, since the report
// is never consulted by index.Store, Scanner, or Extractor.
func writeDFXMLReport(outDir, imagePath string, imageSize uint64, regions []carve.FileRegion) error {
	f, err := os.Create(filepath.Join(outDir, "report.dfxml"))
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	w := dfxml.NewDFXMLWriter(f)
	header := dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: imagePath,
			ImageSize:     imageSize,
		},
	}
	if err := w.WriteHeader(header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}

	for i, r := range regions {
		obj := dfxml.FileObject{
			Filename: fmt.Sprintf("%d.%s", i, r.Kind),
			FileSize: r.Size(),
			ByteRuns: dfxml.ByteRuns{
				Runs: []dfxml.ByteRun{
					{Offset: 0, ImgOffset: r.Start, Length: r.Size()},
				},
			},
		}
		if err := w.WriteFileObject(obj); err != nil {
			return fmt.Errorf("writing file object: %w", err)
		}
	}
	return w.Close()
}

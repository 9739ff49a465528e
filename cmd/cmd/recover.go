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

	"github.com/Crozzers/drive-scanner/internal/disk"
	"github.com/Crozzers/drive-scanner/internal/extractor"
	"github.com/Crozzers/drive-scanner/internal/fs"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/Crozzers/drive-scanner/internal/logger"
	"github.com/spf13/cobra"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <drive> [segment ...]",
		Short: "Re-extract files from a previously scanned index",
		Long: `The 'recover' command replays the extraction step against an index already
produced by 'scan'. It is useful when a scan finished (or was interrupted)
and the recovered/ output was lost or needs regenerating, without sweeping
the drive again. As with 'scan', multiple paths are treated as ordered
segments of a single split raw image.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunRecover,
	}

	cmd.Flags().StringP("output-dir", "o", ".", "directory holding the scan index and recovered files")
	cmd.Flags().Bool("from-scratch", false, "ignore the persisted restart marker and re-extract every region")
	return cmd
}

func RunRecover(cmd *cobra.Command, args []string) error {
	paths, err := disk.NormalizeVolumePaths(args)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	fromScratch, _ := cmd.Flags().GetBool("from-scratch")

	dev, err := fs.OpenSegments(paths)
	if err != nil {
		return fmt.Errorf("opening %s: %w", paths[0], err)
	}
	defer dev.Close()

	store, err := index.Open(outDir)
	if err != nil {
		return fmt.Errorf("opening index directory: %w", err)
	}

	regions, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading persisted index: %w", err)
	}
	if len(regions) == 0 {
		return fmt.Errorf("no index found in %s: run 'scan' first", outDir)
	}

	marker, err := store.LoadMarker()
	if err != nil {
		return fmt.Errorf("loading restart marker: %w", err)
	}
	if fromScratch {
		marker = -1
	}

	log := logger.New(os.Stdout, logger.InfoLevel)
	ex := extractor.New(dev, store, log, outDir, extractor.FileCommandPostProcessor{})

	newMarker, err := ex.Run(regions, marker)
	if err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	log.Infof("recovered regions %d through %d of %d", marker+1, newMarker, len(regions)-1)
	return nil
}

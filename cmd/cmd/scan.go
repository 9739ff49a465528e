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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/Crozzers/drive-scanner/internal/disk"
	"github.com/Crozzers/drive-scanner/internal/extractor"
	"github.com/Crozzers/drive-scanner/internal/fs"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/Crozzers/drive-scanner/internal/logger"
	"github.com/Crozzers/drive-scanner/internal/scanner"
	"github.com/Crozzers/drive-scanner/pkg/pbar"
	"github.com/spf13/cobra"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <drive> [segment ...]",
		Short: "Sweep a disk image or raw device for recoverable files",
		Long: `The 'scan' command sweeps a disk image or raw device for JPEG, PNG, ZIP and
PDF signatures and carves every candidate it finds. Progress is persisted to
--output-dir as it goes, so an interrupted scan picks back up where it left
off the next time it runs against the same drive and output directory.

When more than one path is given, they are treated as ordered segments of a
single split raw image (e.g. image.001, image.002, ...) and swept as one
contiguous device without being joined on disk first.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	cmd.Flags().StringP("output-dir", "o", ".", "directory holding the scan index and recovered files")
	cmd.Flags().Bool("fresh", false, "discard any persisted index and restart marker before scanning")
	cmd.Flags().String("log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	cmd.Flags().Bool("no-log", false, "disable logging output")
	cmd.Flags().Bool("no-progress", false, "disable the live progress bar")
	cmd.Flags().Bool("dfxml", false, "write a report.dfxml side-report alongside index.txt")

	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	paths, err := disk.NormalizeVolumePaths(args)
	if err != nil {
		return err
	}
	path := paths[0]

	outDir, _ := cmd.Flags().GetString("output-dir")
	fresh, _ := cmd.Flags().GetBool("fresh")
	logLevel, _ := cmd.Flags().GetString("log-level")
	noLog, _ := cmd.Flags().GetBool("no-log")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	writeReport, _ := cmd.Flags().GetBool("dfxml")

	log := logger.New(os.Stdout, logger.ParseLevel(logLevel))
	if noLog {
		log = logger.New(os.Stdout, logger.ErrorLevel+1)
	}

	dev, err := fs.OpenSegments(paths)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer dev.Close()

	var imageSize int64
	if info, err := dev.Stat(); err == nil {
		imageSize = info.Size()
	}

	store, err := index.Open(outDir)
	if err != nil {
		return fmt.Errorf("opening index directory: %w", err)
	}
	if fresh {
		if err := store.Reset(); err != nil {
			return fmt.Errorf("clearing persisted index: %w", err)
		}
	}

	regions, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading persisted index: %w", err)
	}
	marker, err := store.LoadMarker()
	if err != nil {
		return fmt.Errorf("loading restart marker: %w", err)
	}

	sc := scanner.New(dev, store, log, scanner.DefaultOptions())
	sc.SetRegions(regions)

	if !noProgress && !noLog && imageSize > 0 {
		bar := pbar.NewProgressBarState(imageSize)
		bar.FilesFound = len(regions)
		sc.OnProgress = func(offset uint64, filesFound int) {
			bar.ProcessedBytes = int64(offset)
			bar.FilesFound = filesFound
			bar.Render(false)
		}
		defer bar.Finish()
	}

	ex := extractor.New(dev, store, log, outDir, extractor.FileCommandPostProcessor{})
	sc.OnGigabyteBoundary = func(regions []carve.FileRegion) error {
		newMarker, err := ex.Run(regions, marker)
		if err != nil {
			return err
		}
		marker = newMarker
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		if _, ok := <-sigCh; ok {
			log.Warn("interrupt received, finishing current region and saving progress")
			cancel()
		}
	}()

	runErr := sc.Run(ctx)
	if runErr != nil && runErr != context.Canceled {
		return fmt.Errorf("scanning: %w", runErr)
	}

	if _, err := ex.Run(sc.Regions(), marker); err != nil {
		return fmt.Errorf("extracting: %w", err)
	}

	if writeReport {
		if err := writeDFXMLReport(outDir, path, uint64(imageSize), sc.Regions()); err != nil {
			log.Warnf("writing DFXML report: %v", err)
		}
	}

	log.Infof("scan complete: %d regions indexed", len(sc.Regions()))
	return nil
}

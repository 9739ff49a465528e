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
	"path/filepath"

	"github.com/Crozzers/drive-scanner/internal/disk"
	"github.com/Crozzers/drive-scanner/internal/fs"
	"github.com/Crozzers/drive-scanner/internal/fuse"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <drive> [segment ...]",
		Short: "Mount a drive's recovered files as a read-only filesystem",
		Long: `The 'mount' command exposes every region recorded in a drive's scan index
as a flat, read-only FUSE filesystem, without copying any bytes out to disk
first. Each recovered file appears named <N>.<kind> under the mountpoint,
matching the filenames 'scan' and 'recover' would have written. As with
'scan', multiple paths are treated as ordered segments of a single split
raw image.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("output-dir", "o", ".", "directory holding the scan index")
	cmd.Flags().StringP("mountpoint", "m", "", "directory to mount the recovered filesystem at; a default is generated if empty")
	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	paths, err := disk.NormalizeVolumePaths(args)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = filepath.Base(paths[0]) + "_mnt"
	}

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

	entries := make([]fuse.FileEntry, len(regions))
	for i, r := range regions {
		entries[i] = fuse.FileEntry{
			Name:   fmt.Sprintf("%d.%s", i, r.Kind),
			Offset: r.Start,
			Size:   r.Size(),
		}
	}
	return fuse.Mount(mountpoint, dev, entries)
}

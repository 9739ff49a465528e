package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSegment(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenSegmentsSinglePathIsPlainOpen(t *testing.T) {
	dir := t.TempDir()
	path := writeSegment(t, dir, "image.dd", []byte("hello world"))

	f, err := OpenSegments([]string{path})
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 5)
	n, err := f.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestOpenSegmentsPresentsOneContiguousDevice(t *testing.T) {
	dir := t.TempDir()
	p1 := writeSegment(t, dir, "image.001", []byte("0123456789"))
	p2 := writeSegment(t, dir, "image.002", []byte("abcdefghij"))

	f, err := OpenSegments([]string{p1, p2})
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(20), info.Size())

	buf := make([]byte, 6)
	n, err := f.ReadAt(buf, 7)
	require.NoError(t, err)
	assert.Equal(t, "789abc", string(buf[:n]))

	buf = make([]byte, 4)
	n, err = f.ReadAt(buf, 16)
	require.NoError(t, err)
	assert.Equal(t, "ghij", string(buf[:n]))
}

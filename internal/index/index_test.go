package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	regions := []carve.FileRegion{
		{Start: 0, End: 100, Kind: carve.KindJPEG},
		{Start: 200, End: 5000, Kind: carve.KindZIP},
	}
	require.NoError(t, s.Save(regions))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, regions, got)
}

func TestLoadMissingIsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	marker, err := s.LoadMarker()
	require.NoError(t, err)
	assert.Equal(t, -1, marker)
}

func TestLoadCorruptIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, indexFileName), []byte("not,a,validregion,extra\n"), 0o644))

	s, err := Open(dir)
	require.NoError(t, err)

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrIndexParseError)
}

func TestMarkerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.SaveMarker(42))
	got, err := s.LoadMarker()
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestResetClearsBothFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save([]carve.FileRegion{{Start: 0, End: 10, Kind: carve.KindPNG}}))
	require.NoError(t, s.SaveMarker(1))
	require.NoError(t, s.Reset())

	regions, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, regions)

	marker, err := s.LoadMarker()
	require.NoError(t, err)
	assert.Equal(t, -1, marker)
}

package extractor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/Crozzers/drive-scanner/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNGBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 1, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestExtractor(t *testing.T, dev Device) (*Extractor, *index.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := index.Open(dir)
	require.NoError(t, err)
	log := logger.New(io.Discard, logger.ErrorLevel)
	return New(dev, store, log, dir, nil), store, dir
}

func TestExtractor_WritesValidRegion(t *testing.T) {
	png1 := encodePNGBytes(t, 300, 200)

	device := append(append([]byte("garbage---"), png1...), []byte("trailing")...)
	regions := []carve.FileRegion{
		{Start: 10, End: uint64(10 + len(png1)), Kind: carve.KindPNG},
	}

	ex, _, dir := newTestExtractor(t, bytes.NewReader(device))
	marker, err := ex.Run(regions, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, marker)

	written, err := os.ReadFile(filepath.Join(dir, "recovered", "png", "0.png"))
	require.NoError(t, err)
	assert.Equal(t, png1, written)
}

func TestExtractor_SkipsInvalidRegion(t *testing.T) {
	iconPNG := encodePNGBytes(t, 16, 16) // icon-sized, fails validation

	device := append([]byte("garbage---"), iconPNG...)
	regions := []carve.FileRegion{
		{Start: 10, End: uint64(10 + len(iconPNG)), Kind: carve.KindPNG},
	}

	ex, _, dir := newTestExtractor(t, bytes.NewReader(device))
	marker, err := ex.Run(regions, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, marker) // marker still advances past it

	_, err = os.Stat(filepath.Join(dir, "recovered", "png", "0.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractor_IdempotentRerun(t *testing.T) {
	png1 := encodePNGBytes(t, 300, 200)
	device := append([]byte("garbage---"), png1...)
	regions := []carve.FileRegion{
		{Start: 10, End: uint64(10 + len(png1)), Kind: carve.KindPNG},
	}

	ex, store, dir := newTestExtractor(t, bytes.NewReader(device))
	marker, err := ex.Run(regions, -1)
	require.NoError(t, err)

	loaded, err := store.LoadMarker()
	require.NoError(t, err)
	assert.Equal(t, marker, loaded)

	info, err := os.Stat(filepath.Join(dir, "recovered", "png", "0.png"))
	require.NoError(t, err)
	modTimeBefore := info.ModTime()

	marker2, err := ex.Run(regions, marker)
	require.NoError(t, err)
	assert.Equal(t, marker, marker2)

	info2, err := os.Stat(filepath.Join(dir, "recovered", "png", "0.png"))
	require.NoError(t, err)
	assert.Equal(t, modTimeBefore, info2.ModTime())
}

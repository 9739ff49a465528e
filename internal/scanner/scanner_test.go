package scanner

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/Crozzers/drive-scanner/internal/carve"
	"github.com/Crozzers/drive-scanner/internal/index"
	"github.com/Crozzers/drive-scanner/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 2, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 3, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeZIPWithJPEG(t *testing.T, jpegData []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("photo.jpg")
	require.NoError(t, err)
	_, err = f.Write(jpegData)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestScanner(t *testing.T, dev []byte) (*Scanner, *index.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := index.Open(dir)
	require.NoError(t, err)
	log := logger.New(io.Discard, logger.ErrorLevel)
	return New(bytes.NewReader(dev), store, log, DefaultOptions()), store
}

func TestScanner_SingleJPEGClean(t *testing.T) {
	jpegData := encodeJPEG(t, 400, 300)

	device := append(append(bytes.Repeat([]byte{0x00}, 1000), jpegData...), bytes.Repeat([]byte{0x00}, 1000)...)

	s, _ := newTestScanner(t, device)
	require.NoError(t, s.Run(context.Background()))

	regions := s.Regions()
	require.Len(t, regions, 1)
	assert.Equal(t, carve.KindJPEG, regions[0].Kind)
	assert.Equal(t, uint64(1000), regions[0].Start)
	assert.Equal(t, uint64(1000+len(jpegData)), regions[0].End)
}

func TestScanner_TwoPNGsWithGarbageBetween(t *testing.T) {
	pngA := encodePNG(t, 200, 200)
	pngB := encodePNG(t, 150, 150)

	device := append(append(pngA, bytes.Repeat([]byte{0x11}, 2_000_000)...), pngB...)

	s, _ := newTestScanner(t, device)
	require.NoError(t, s.Run(context.Background()))

	regions := s.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, carve.KindPNG, regions[0].Kind)
	assert.Equal(t, carve.KindPNG, regions[1].Kind)
	assert.True(t, regions[0].Start <= regions[1].Start)
}

func TestScanner_TruncatedJPEGNoRegion(t *testing.T) {
	jpegData := encodeJPEG(t, 400, 300)
	// cut it short, before any EOI marker can appear
	truncated := jpegData[:len(jpegData)/2]

	s, _ := newTestScanner(t, truncated)
	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, s.Regions())
}

func TestScanner_ZIPContainingJPEG_OnlyZIPRegion(t *testing.T) {
	jpegData := encodeJPEG(t, 300, 300)
	zipData := encodeZIPWithJPEG(t, jpegData)

	s, _ := newTestScanner(t, zipData)
	require.NoError(t, s.Run(context.Background()))

	regions := s.Regions()
	require.Len(t, regions, 1)
	assert.Equal(t, carve.KindZIP, regions[0].Kind)
}

func TestScanner_ResumeSkipsAlreadyIndexedRegion(t *testing.T) {
	jpegData := encodeJPEG(t, 400, 300)
	device := append(append(bytes.Repeat([]byte{0x00}, 1000), jpegData...), bytes.Repeat([]byte{0x00}, 1000)...)

	dir := t.TempDir()
	store, err := index.Open(dir)
	require.NoError(t, err)
	log := logger.New(io.Discard, logger.ErrorLevel)

	s1 := New(bytes.NewReader(device), store, log, DefaultOptions())
	require.NoError(t, s1.Run(context.Background()))
	first := s1.Regions()
	require.Len(t, first, 1)

	s2 := New(bytes.NewReader(device), store, log, DefaultOptions())
	s2.SetRegions(first)
	require.NoError(t, s2.Run(context.Background()))
	assert.Equal(t, first, s2.Regions())
}

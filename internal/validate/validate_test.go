package validate

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImage_RejectsIcon(t *testing.T) {
	data := encodePNG(t, 32, 32)
	err := Image(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestImage_AcceptsSmallNonSquareImage(t *testing.T) {
	data := encodePNG(t, 20, 50)
	err := Image(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
}

func TestImage_AcceptsRegularPhoto(t *testing.T) {
	data := encodePNG(t, 800, 600)
	err := Image(bytes.NewReader(data), int64(len(data)))
	assert.NoError(t, err)
}

func TestImage_RejectsGarbage(t *testing.T) {
	err := Image(bytes.NewReader([]byte("not an image")), 12)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestZIP_AcceptsWellFormedArchive(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("hello.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	err = ZIP(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.NoError(t, err)
}

func TestZIP_RejectsTruncated(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("hello.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	truncated := buf.Bytes()[:buf.Len()-10]
	err = ZIP(bytes.NewReader(truncated), int64(len(truncated)))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestPDF_AcceptsWellFormedTrailer(t *testing.T) {
	body := []byte("%PDF-1.4\n1 0 obj<<>>endobj\nxref\n0 1\ntrailer<</Root 1 0 R>>\nstartxref\n9\n%%EOF")
	err := PDF(bytes.NewReader(body), int64(len(body)))
	assert.NoError(t, err)
}

func TestPDF_RejectsMissingStartxref(t *testing.T) {
	body := []byte("%PDF-1.4\nnothing resembling real structure\n%%EOF")
	err := PDF(bytes.NewReader(body), int64(len(body)))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestPDF_RejectsOutOfRangeOffset(t *testing.T) {
	body := []byte("%PDF-1.4\ntrailer<</Root 1 0 R>>\nstartxref\n99999\n%%EOF")
	err := PDF(bytes.NewReader(body), int64(len(body)))
	assert.ErrorIs(t, err, ErrValidationFailed)
}

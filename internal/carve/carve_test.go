package carve

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanJPEG(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xE0, 0x00, 0x04, 0xAA, 0xBB}) // APP0, length 4, 2 payload bytes
	buf.Write([]byte{0xFF, 0xDA, 0x00, 0x02})              // SOS, length 2, no header payload
	buf.Write(bytes.Repeat([]byte{0x11, 0x22}, 50))        // stuffed-looking entropy data
	buf.Write([]byte{0xFF, 0xD9})                          // EOI
	buf.Write([]byte{0xDE, 0xAD})                          // trailing garbage, not part of file
	want := buf.Len() - 2 // measured before the reader drains buf

	r := NewReader(&buf, 4096)
	end, err := ScanJPEG(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(want), end)
}

func TestScanJPEG_NoEOI(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xE0, 0x00, 0x04, 0xAA, 0xBB})

	r := NewReader(&buf, 4096)
	_, err := ScanJPEG(r)
	assert.Error(t, err)
}

func TestScanPNG(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("fake IHDR and IDAT chunk bytes here")
	buf.Write(pngEndSig)
	buf.WriteString("trailing")

	r := NewReader(&buf, 4096)
	end, err := ScanPNG(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(len("fake IHDR and IDAT chunk bytes here")+len(pngEndSig)), end)
}

func TestScanPNG_TerminatorStraddlesWindowBoundary(t *testing.T) {
	var buf bytes.Buffer
	// pngScanWindow is 1024 bytes; place IEND so it straddles that
	// boundary and would be missed by two disjoint, non-overlapping
	// windows.
	filler := bytes.Repeat([]byte{0xAB}, pngScanWindow-len(pngEndSig)/2)
	buf.Write(filler)
	buf.Write(pngEndSig)
	buf.WriteString("trailing")

	r := NewReader(&buf, 4096)
	end, err := ScanPNG(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(filler)+len(pngEndSig)), end)
}

func TestScanZIP(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("local file header + central directory bytes")
	buf.Write(zipEOCDSig)
	buf.Write(make([]byte, zipEOCDFixedLen-2))
	comment := "a zip comment"
	buf.Write([]byte{byte(len(comment)), 0})
	buf.WriteString(comment)
	buf.WriteString("trailing")
	want := buf.Len() - len("trailing") // measured before the reader drains buf

	r := NewReader(&buf, 4096)
	end, err := ScanZIP(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(want), end)
}

func TestScanPDF_Flat(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("1 0 obj << >> endobj")
	buf.Write(pdfEndSig)
	buf.WriteString("trailing")

	r := NewReader(&buf, 4096)
	end, err := ScanPDF(r)
	require.NoError(t, err)
	assert.Equal(t, uint64(len("1 0 obj << >> endobj")+len(pdfEndSig)), end)
}

func TestScanPDF_Nested(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("outer body")
	buf.Write(pdfStartSig) // embedded PDF start, increments depth
	buf.WriteString("inner body")
	buf.Write(pdfEndSig) // closes the embedded PDF, depth back to 0
	buf.WriteString("more outer body")
	buf.Write(pdfEndSig) // closes the outer PDF
	buf.WriteString("trailing")

	r := NewReader(&buf, 4096)
	end, err := ScanPDF(r)
	require.NoError(t, err)
	want := len("outer body") + len(pdfStartSig) + len("inner body") + len(pdfEndSig) +
		len("more outer body") + len(pdfEndSig)
	assert.Equal(t, uint64(want), end)
}

func TestRegistryPriorityOrder(t *testing.T) {
	reg := NewRegistry()

	h, ok := reg.Match(zipStartSig)
	require.True(t, ok)
	assert.Equal(t, KindZIP, h.Kind)

	h, ok = reg.Match(pdfStartSig)
	require.True(t, ok)
	assert.Equal(t, KindPDF, h.Kind)

	h, ok = reg.Match(pngStartSig)
	require.True(t, ok)
	assert.Equal(t, KindPNG, h.Kind)
}

func TestFileRegionValid(t *testing.T) {
	r := FileRegion{Start: 10, End: 20, Kind: KindPNG}
	assert.True(t, r.Valid())
	assert.Equal(t, uint64(10), r.Size())

	bad := FileRegion{Start: 20, End: 10, Kind: KindPNG}
	assert.False(t, bad.Valid())

	tooBig := FileRegion{Start: 0, End: KindJPEG.Cap() + 1, Kind: KindJPEG}
	assert.False(t, tooBig.Valid())
}

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	cases := map[string]int64{
		"512":     512,
		"5MB":     5 << 20,
		"10 GB":   10 << 30,
		"50mb":    50 << 20,
		"1.5KB":   int64(1.5 * (1 << 10)),
		"10TB":    10 << 40,
		"100B":    100,
	}
	for in, want := range cases {
		got, err := ParseBytes(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseBytes_Invalid(t *testing.T) {
	for _, in := range []string{"", "MB", "5XB", "abc"} {
		_, err := ParseBytes(in)
		assert.Error(t, err, in)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, b := range []int64{0, 512, 5 << 20, 50 << 20, 10 << 30} {
		formatted := FormatBytes(b)
		assert.NotEmpty(t, formatted)
		got, err := ParseBytes(formatted)
		require.NoError(t, err, formatted)
		assert.Equal(t, b, got, formatted)
	}
}

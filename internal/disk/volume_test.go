package disk

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVolumePath_NonWindowsPassthrough(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exercises the non-windows passthrough branch")
	}
	got, err := NormalizeVolumePath("/dev/sdb")
	assert.NoError(t, err)
	assert.Equal(t, "/dev/sdb", got)
}

func TestNormalizeVolumePath_Empty(t *testing.T) {
	_, err := NormalizeVolumePath("")
	assert.Error(t, err)
}

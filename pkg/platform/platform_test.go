package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	assert.Equal(t, Family(runtime.GOOS), Current())
	assert.Equal(t, runtime.GOOS == "windows", Current().IsWindows())
}

func TestExecutableSuffixes(t *testing.T) {
	assert.Equal(t, []string{".exe", ".bat", ".cmd"}, Windows.ExecutableSuffixes())
	assert.Equal(t, []string{"", ".sh", ".bin", ".app"}, Linux.ExecutableSuffixes())
	assert.Equal(t, []string{"", ".sh", ".bin", ".app"}, Darwin.ExecutableSuffixes())
}

func TestPathListSeparator(t *testing.T) {
	assert.Equal(t, ";", Windows.PathListSeparator())
	assert.Equal(t, ":", Linux.PathListSeparator())
}

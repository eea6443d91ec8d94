// pkg/testutil/memoryfs_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test MemoryFS link semantics and mutation tracking

package testutil

import (
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS_BasicOperations(t *testing.T) {
	m := NewMemoryFS()

	require.NoError(t, m.MkdirAll("/path/to/dir", 0755))
	require.NoError(t, m.WriteFile("/path/to/dir/file.txt", []byte("content"), 0644))

	got, err := m.ReadFile("/path/to/dir/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(got))

	info, err := m.Stat("/path/to/dir")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := m.ReadDir("/path/to")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dir", entries[0].Name())
}

func TestMemoryFS_WriteRequiresParent(t *testing.T) {
	m := NewMemoryFS()

	err := m.WriteFile("/missing/file.txt", []byte("x"), 0644)

	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFS_Symlinks(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.MkdirAll("/staging/pkg", 0755))
	require.NoError(t, m.WriteFile("/staging/pkg/index.js", []byte("js"), 0644))
	require.NoError(t, m.MkdirAll("/node_modules", 0755))
	require.NoError(t, m.Symlink("/staging/pkg", "/node_modules/pkg"))

	linfo, err := m.Lstat("/node_modules/pkg")
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&os.ModeSymlink)

	info, err := m.Stat("/node_modules/pkg")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	content, err := m.ReadFile("/node_modules/pkg/index.js")
	require.NoError(t, err)
	assert.Equal(t, "js", string(content))

	target, err := m.Readlink("/node_modules/pkg")
	require.NoError(t, err)
	assert.Equal(t, "/staging/pkg", target)

	err = m.Symlink("/elsewhere", "/node_modules/pkg")
	assert.True(t, errors.Is(err, fs.ErrExist))
}

func TestMemoryFS_RemoveAllDoesNotFollowLinks(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.MkdirAll("/staging/pkg", 0755))
	require.NoError(t, m.WriteFile("/staging/pkg/index.js", []byte("js"), 0644))
	require.NoError(t, m.Symlink("/staging/pkg", "/link"))

	require.NoError(t, m.RemoveAll("/link"))

	_, err := m.Lstat("/link")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	_, err = m.Stat("/staging/pkg/index.js")
	assert.NoError(t, err)
}

func TestMemoryFS_RemoveNonEmptyDirectory(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.MkdirAll("/dir", 0755))
	require.NoError(t, m.WriteFile("/dir/f", nil, 0644))

	assert.Error(t, m.Remove("/dir"))
	require.NoError(t, m.RemoveAll("/dir"))
	assert.NoError(t, m.RemoveAll("/dir"), "removing a missing path succeeds")
}

func TestMemoryFS_Rename(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.MkdirAll("/a/sub", 0755))
	require.NoError(t, m.WriteFile("/a/sub/f", []byte("x"), 0644))

	require.NoError(t, m.Rename("/a", "/b"))

	_, err := m.Stat("/a")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	content, err := m.ReadFile("/b/sub/f")
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}

func TestMemoryFS_Mutations(t *testing.T) {
	m := NewMemoryFS()
	require.NoError(t, m.MkdirAll("/a/b", 0755))
	assert.Equal(t, []string{"mkdir /a", "mkdir /a/b"}, m.Mutations())

	m.ResetMutations()
	require.NoError(t, m.MkdirAll("/a/b", 0755))
	_, _ = m.Stat("/a/b")
	_, _ = m.ReadDir("/a")
	assert.Empty(t, m.Mutations(), "reads and existing directories do not count")

	require.NoError(t, m.Symlink("/a/b", "/l"))
	require.NoError(t, m.Remove("/l"))
	assert.Equal(t, []string{"symlink /l", "remove /l"}, m.Mutations())
}

func TestMemoryFS_ErrorInjection(t *testing.T) {
	boom := errors.New("boom")
	m := NewMemoryFS().WithError("/broken", boom)

	_, err := m.Stat("/broken")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.WriteFile("/broken", nil, 0644), boom)
}

//go:build unix

package mutator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func crossDevice(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: unix.EXDEV}
}

func backups(t *testing.T, dest string) []string {
	t.Helper()
	matches, err := filepath.Glob(dest + ".skillkit-backup-*")
	require.NoError(t, err)
	return matches
}

func TestMoveTree_CrossDeviceFallback(t *testing.T) {
	src := buildTree(t)
	dest := filepath.Join(t.TempDir(), "dest")
	require.NoError(t, os.MkdirAll(dest, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "old.txt"), []byte("old"), 0644))

	m := New(WithRename(crossDevice))
	require.NoError(t, m.MoveTree(src, dest))

	assert.NoDirExists(t, src)
	assert.FileExists(t, filepath.Join(dest, "SKILL.md"))
	assert.NoFileExists(t, filepath.Join(dest, "old.txt"))
	assert.NoDirExists(t, filepath.Join(dest, ".git"))
	assert.Empty(t, backups(t, dest))
}

func TestMoveTree_CrossDeviceCopyFailureRestores(t *testing.T) {
	src := buildTree(t)
	require.NoError(t, os.Symlink("/etc/hosts", filepath.Join(src, "scripts", "link")))

	dest := filepath.Join(t.TempDir(), "dest")
	require.NoError(t, os.MkdirAll(filepath.Join(dest, "sub"), 0755))
	original := []byte("original bytes \x00\x01\x02")
	require.NoError(t, os.WriteFile(filepath.Join(dest, "sub", "keep.bin"), original, 0640))

	m := New(WithRename(crossDevice))
	err := m.MoveTree(src, dest)
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindLinkNotAllowed))

	// Source untouched.
	assert.FileExists(t, filepath.Join(src, "SKILL.md"))
	assert.FileExists(t, filepath.Join(src, ".git", "HEAD"))

	// Destination restored byte-for-byte.
	got, err := os.ReadFile(filepath.Join(dest, "sub", "keep.bin"))
	require.NoError(t, err)
	assert.Equal(t, original, got)
	assert.NoFileExists(t, filepath.Join(dest, "SKILL.md"))
	info, err := os.Stat(filepath.Join(dest, "sub", "keep.bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())

	assert.Empty(t, backups(t, dest))
}

func TestMoveTree_CrossDeviceNoExistingDest(t *testing.T) {
	src := buildTree(t)
	require.NoError(t, os.Symlink("x", filepath.Join(src, "link")))
	dest := filepath.Join(t.TempDir(), "dest")

	err := New(WithRename(crossDevice)).MoveTree(src, dest)
	require.Error(t, err)
	assert.NoDirExists(t, dest)
	assert.DirExists(t, src)
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, isCrossDevice(crossDevice("a", "b")))
	assert.False(t, isCrossDevice(os.ErrNotExist))
}

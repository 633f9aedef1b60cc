package gitclone

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRemote(t *testing.T) {
	remote := []string{
		"https://github.com/org/skills.git",
		"http://example.com/repo",
		"ssh://git@example.com/repo.git",
		"git://example.com/repo",
		"file:///tmp/repo",
		"git@github.com:org/repo.git",
	}
	for _, s := range remote {
		assert.True(t, IsRemote(s), s)
	}

	local := []string{
		"./skills/demo",
		"/abs/path",
		"demo",
		"C:/skills/demo",
		"~/skills",
		"user@host:/abs",
	}
	for _, s := range local {
		assert.False(t, IsRemote(s), s)
	}
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com", "-c", "commit.gpgsign=false"}, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestShallowClone(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	origin := t.TempDir()
	gitRun(t, origin, "init", "--quiet")
	require.NoError(t, os.WriteFile(filepath.Join(origin, "SKILL.md"), []byte("---\nname: remote\ndescription: d\n---\n"), 0644))
	gitRun(t, origin, "add", "SKILL.md")
	gitRun(t, origin, "commit", "--quiet", "-m", "init")

	target := filepath.Join(t.TempDir(), "clone")
	require.NoError(t, ShallowClone("file://"+origin, target))

	assert.FileExists(t, filepath.Join(target, "SKILL.md"))
	assert.NoDirExists(t, target+tmpSuffix)
}

func TestShallowClone_FailureCleansUp(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	target := filepath.Join(t.TempDir(), "clone")
	err := ShallowClone("file://"+filepath.Join(t.TempDir(), "missing"), target)
	require.Error(t, err)
	assert.NoDirExists(t, target)
	assert.NoDirExists(t, target+tmpSuffix)
}

func TestShallowClone_TargetExists(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	err := ShallowClone("file:///nowhere", t.TempDir())
	assert.Error(t, err)
}

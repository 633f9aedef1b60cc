package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type classifyFixture struct {
	root     string
	consumer string
	outside  string
}

func newClassifyFixture(t *testing.T) classifyFixture {
	t.Helper()
	tmp := t.TempDir()
	f := classifyFixture{
		root:     filepath.Join(tmp, "canonical"),
		consumer: filepath.Join(tmp, "agent", "skills"),
		outside:  filepath.Join(tmp, "elsewhere"),
	}
	for _, d := range []string{
		filepath.Join(f.root, "demo"),
		f.consumer,
		filepath.Join(f.outside, "demo"),
	} {
		require.NoError(t, os.MkdirAll(d, 0755))
	}
	return f
}

func TestClassify(t *testing.T) {
	f := newClassifyFixture(t)
	c, err := NewClassifier(f.root)
	require.NoError(t, err)

	physical := filepath.Join(f.consumer, "physical")
	require.NoError(t, os.Mkdir(physical, 0755))

	managed := filepath.Join(f.consumer, "managed")
	require.NoError(t, os.Symlink(filepath.Join(f.root, "demo"), managed))

	foreign := filepath.Join(f.consumer, "foreign")
	require.NoError(t, os.Symlink(filepath.Join(f.outside, "demo"), foreign))

	broken := filepath.Join(f.consumer, "broken")
	require.NoError(t, os.Symlink(filepath.Join(f.root, "gone"), broken))

	got := c.Classify(physical)
	assert.Equal(t, Unmanaged, got.Class)
	assert.False(t, got.IsLink)

	got = c.Classify(managed)
	assert.Equal(t, Managed, got.Class)
	assert.Equal(t, filepath.Join(f.root, "demo"), got.RawTarget)
	assert.Equal(t, filepath.Join(c.Root(), "demo"), got.Resolved)

	assert.Equal(t, ForeignSymlink, c.Classify(foreign).Class)

	got = c.Classify(broken)
	assert.Equal(t, BrokenSymlink, got.Class, "broken inside the root is still broken")
	assert.Empty(t, got.Resolved)
}

func TestClassifyRelativeLink(t *testing.T) {
	f := newClassifyFixture(t)
	c, err := NewClassifier(f.root)
	require.NoError(t, err)

	rel, err := filepath.Rel(f.consumer, filepath.Join(f.root, "demo"))
	require.NoError(t, err)
	link := filepath.Join(f.consumer, "rel")
	require.NoError(t, os.Symlink(rel, link))

	assert.Equal(t, Managed, c.Classify(link).Class)
}

func TestClassifyIsIdempotent(t *testing.T) {
	f := newClassifyFixture(t)
	c, err := NewClassifier(f.root)
	require.NoError(t, err)

	link := filepath.Join(f.consumer, "demo")
	require.NoError(t, os.Symlink(filepath.Join(f.root, "demo"), link))

	first := c.Classify(link)
	second := c.Classify(link)
	assert.Equal(t, first, second)
}

func TestClassifyThroughSymlinkedRoot(t *testing.T) {
	f := newClassifyFixture(t)
	alias := filepath.Join(filepath.Dir(f.root), "alias")
	require.NoError(t, os.Symlink(f.root, alias))

	// The classifier is configured with the alias; links pointing at the
	// real root must still count as managed.
	c, err := NewClassifier(alias)
	require.NoError(t, err)

	link := filepath.Join(f.consumer, "demo")
	require.NoError(t, os.Symlink(filepath.Join(f.root, "demo"), link))
	assert.Equal(t, Managed, c.Classify(link).Class)
}

func TestNewClassifierEmptyRoot(t *testing.T) {
	_, err := NewClassifier("")
	assert.Error(t, err)
}

func TestInstallationClassString(t *testing.T) {
	assert.Equal(t, "managed", Managed.String())
	assert.Equal(t, "broken-symlink", BrokenSymlink.String())
	assert.True(t, ForeignSymlink.IsSymlink())
	assert.False(t, Unmanaged.IsSymlink())

	text, err := Unmanaged.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "unmanaged", string(text))
}

func TestInstallationClassUnmarshalText(t *testing.T) {
	var c InstallationClass
	require.NoError(t, c.UnmarshalText([]byte("foreign-symlink")))
	assert.Equal(t, ForeignSymlink, c)

	assert.Error(t, c.UnmarshalText([]byte("sideways")))
}

func TestClassifyLinkToRootItselfIsForeign(t *testing.T) {
	f := newClassifyFixture(t)
	c, err := NewClassifier(f.root)
	require.NoError(t, err)

	link := filepath.Join(f.consumer, "whole")
	require.NoError(t, os.Symlink(f.root, link))

	got := c.Classify(link)
	assert.Equal(t, ForeignSymlink, got.Class)
}

func TestClassifyRootCreatedUnderSymlinkedAncestor(t *testing.T) {
	tmp := t.TempDir()
	realDir := filepath.Join(tmp, "real")
	require.NoError(t, os.MkdirAll(realDir, 0755))
	alias := filepath.Join(tmp, "alias")
	require.NoError(t, os.Symlink(realDir, alias))

	root := filepath.Join(alias, "skills")
	c, err := NewClassifier(root)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "demo"), 0755))
	consumer := filepath.Join(tmp, "agent")
	require.NoError(t, os.MkdirAll(consumer, 0755))
	link := filepath.Join(consumer, "demo")
	require.NoError(t, os.Symlink(filepath.Join(root, "demo"), link))

	got := c.Classify(link)
	assert.Equal(t, Managed, got.Class)

	resolvedReal, err := filepath.EvalSymlinks(realDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolvedReal, "skills"), c.Root())
}

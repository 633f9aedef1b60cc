package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentx-labs/skillkit/internal/agents"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	home      string
	workspace string
	file      string
}

func newFixture(t *testing.T, yaml string) fixture {
	t.Helper()
	tmp := t.TempDir()
	f := fixture{
		home:      filepath.Join(tmp, "home"),
		workspace: filepath.Join(tmp, "ws"),
		file:      filepath.Join(tmp, "home", ".skillkit", "config.yaml"),
	}
	require.NoError(t, os.MkdirAll(f.workspace, 0755))
	if yaml != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(f.file), 0755))
		require.NoError(t, os.WriteFile(f.file, []byte(yaml), 0644))
	}
	return f
}

func (f fixture) load(t *testing.T) *Settings {
	t.Helper()
	s, err := Load(Options{ConfigFile: f.file, Workspace: f.workspace, Home: f.home})
	require.NoError(t, err)
	return s
}

func TestLoad_Defaults(t *testing.T) {
	f := newFixture(t, "")
	s := f.load(t)

	assert.Equal(t, filepath.Join(f.home, ".skillkit", "skills"), s.CanonicalRoot)
	assert.Equal(t, f.workspace, s.Workspace)
	assert.Equal(t, f.file, s.ConfigFile)
	assert.NotEmpty(t, s.CachePath)
	assert.Empty(t, s.Ignore)
	assert.False(t, s.NoCache)

	known := agents.All()
	require.Len(t, s.Agents, len(known))
	for i, a := range known {
		got := s.Agents[i]
		assert.Equal(t, string(a.ID), got.ID)
		assert.True(t, got.Enabled)
		assert.False(t, got.Custom)
		assert.Equal(t, filepath.Join(f.home, a.GlobalDir), got.GlobalPath)
		assert.Equal(t, filepath.Join(f.workspace, a.WorkspaceDir), got.WorkspacePath)
	}
}

func TestLoad_FromFile(t *testing.T) {
	f := newFixture(t, `
canonical_root: ~/my-skills
cache_path: ~/cache/scan.json
scan:
  ignore: ["*.bak", "tmp-*"]
agents:
  cursor:
    enabled: false
  codex:
    global_path: ~/elsewhere/codex
  zeta:
    workspace_path: .zeta/skills
  my-agent:
    global_path: ~/.my-agent/skills
    workspace_path: /abs/my-agent
`)
	s := f.load(t)

	assert.Equal(t, filepath.Join(f.home, "my-skills"), s.CanonicalRoot)
	assert.Equal(t, filepath.Join(f.home, "cache", "scan.json"), s.CachePath)
	assert.Equal(t, []string{"*.bak", "tmp-*"}, s.Ignore)

	cursor, ok := s.Agent("cursor")
	require.True(t, ok)
	assert.False(t, cursor.Enabled)

	codex, ok := s.Agent("codex")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(f.home, "elsewhere", "codex"), codex.GlobalPath)

	n := len(agents.All())
	require.Len(t, s.Agents, n+2)
	assert.Equal(t, "my-agent", s.Agents[n].ID)
	assert.Equal(t, "zeta", s.Agents[n+1].ID)

	mine := s.Agents[n]
	assert.True(t, mine.Custom)
	assert.True(t, mine.Enabled)
	assert.Equal(t, filepath.Join(f.home, ".my-agent", "skills"), mine.GlobalPath)
	assert.Equal(t, "/abs/my-agent", mine.WorkspacePath)

	zeta := s.Agents[n+1]
	assert.Empty(t, zeta.GlobalPath)
	assert.Equal(t, filepath.Join(f.workspace, ".zeta", "skills"), zeta.WorkspacePath)

	for _, a := range s.EnabledAgents() {
		assert.NotEqual(t, "cursor", a.ID)
	}
	assert.Len(t, s.EnabledAgents(), n+1)
}

func TestLoad_CustomAgentWithoutPaths(t *testing.T) {
	f := newFixture(t, "agents:\n  ghost:\n    enabled: true\n")
	_, err := Load(Options{ConfigFile: f.file, Workspace: f.workspace, Home: f.home})
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindValidation))
}

func TestLoad_MalformedFile(t *testing.T) {
	f := newFixture(t, "canonical_root: [unterminated\n")
	_, err := Load(Options{ConfigFile: f.file, Workspace: f.workspace, Home: f.home})
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	f := newFixture(t, "canonical_root: ~/from-file\n")
	override := filepath.Join(t.TempDir(), "from-env")
	t.Setenv("SKILLKIT_CANONICAL_ROOT", override)

	s := f.load(t)
	assert.Equal(t, override, s.CanonicalRoot)
}

func TestLoad_WorkspaceFromFile(t *testing.T) {
	f := newFixture(t, "workspace: ~/proj\n")
	s, err := Load(Options{ConfigFile: f.file, Home: f.home})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.home, "proj"), s.Workspace)
}

func TestLoad_NoCacheFlag(t *testing.T) {
	f := newFixture(t, "")
	s, err := Load(Options{ConfigFile: f.file, Workspace: f.workspace, Home: f.home, NoCache: true})
	require.NoError(t, err)
	assert.True(t, s.NoCache)
}

func TestResolvePath(t *testing.T) {
	home := "/home/u"
	cases := []struct {
		in, base, want string
	}{
		{"~", "", "/home/u"},
		{"~/a/b", "", "/home/u/a/b"},
		{"/abs/x", "/base", "/abs/x"},
		{"rel/x", "/base", "/base/rel/x"},
		{"/a/../b", "", "/b"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := resolvePath(tc.in, home, tc.base)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKILLKIT_HOME", dir)
	assert.Equal(t, dir, Dir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), FilePath())
}

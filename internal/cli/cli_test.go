package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t         *testing.T
	home      string
	workspace string
	config    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	color.NoColor = true

	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	home := filepath.Join(tmp, "home")
	ws := filepath.Join(tmp, "ws")
	require.NoError(t, os.MkdirAll(home, 0755))
	require.NoError(t, os.MkdirAll(ws, 0755))

	t.Setenv("HOME", home)
	t.Setenv("SKILLKIT_HOME", filepath.Join(home, ".skillkit"))
	t.Setenv("SKILLKIT_LOG_FILE", filepath.Join(tmp, "skillkit.log"))

	cfg := filepath.Join(tmp, "config.yaml")
	content := "canonical_root: " + filepath.Join(home, ".skillkit", "skills") + "\n" +
		"cache_path: " + filepath.Join(tmp, "cache", "scan-cache.json") + "\n" +
		"agents:\n" +
		"  cursor:\n    enabled: false\n" +
		"  gemini:\n    enabled: false\n" +
		"  opencode:\n    enabled: false\n" +
		"  copilot:\n    enabled: false\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))

	return &harness{t: t, home: home, workspace: ws, config: cfg}
}

func (h *harness) canonical() string {
	return filepath.Join(h.home, ".skillkit", "skills")
}

func (h *harness) agentDir(dir string) string {
	return filepath.Join(h.home, dir, "skills")
}

// run executes the root command with fresh flag state and returns stdout.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", h.config, "--workspace", h.workspace}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags() {
	verbosity, noCache, configFile, workspaceDir = 0, false, "", ""
	listJSON, statusJSON, syncJSON = false, false, false
	syncAgents, syncScope, syncForce = nil, "global", false
	installForce, installLink, installAgents, installScope, installSubdir = false, false, nil, "global", ""
	adoptFrom, adoptScope, adoptForce = "", "", false
	removeYes, removePurge, removeAgents = false, false, nil
	versionShort, versionJSON = false, false
}

func writeSkill(t *testing.T, parent, name string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	content := "---\nname: " + name + "\ndescription: test skill " + name + "\nversion: 1.0.0\n---\n# " + name + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0644))
	return dir
}

func TestSyncLinksCanonicalSkills(t *testing.T) {
	h := newHarness(t)
	writeSkill(t, h.canonical(), "alpha")

	out, err := h.run("", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "2 linked")

	for _, dir := range []string{".claude", ".codex"} {
		link := filepath.Join(h.agentDir(dir), "alpha")
		target, err := os.Readlink(link)
		require.NoError(t, err, dir)
		assert.Equal(t, filepath.Join(h.canonical(), "alpha"), target)
	}
	_, err = os.Lstat(filepath.Join(h.home, ".cursor", "skills", "alpha"))
	assert.True(t, os.IsNotExist(err), "disabled agent must not be linked")

	out, err = h.run("", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "2 unchanged")
}

func TestSyncRejectsBadScope(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "sync", "--scope", "galaxy")
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindValidation))
}

func TestListJSON(t *testing.T) {
	h := newHarness(t)
	writeSkill(t, h.canonical(), "alpha")
	writeSkill(t, h.agentDir(".codex"), "beta")
	_, err := h.run("", "sync", "alpha")
	require.NoError(t, err)

	out, err := h.run("", "list", "--json")
	require.NoError(t, err)

	var res inventory.ScanResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Skills, 2)
	assert.Equal(t, "alpha", res.Skills[0].Name())
	assert.True(t, res.Skills[0].IsManaged)
	assert.Equal(t, "beta", res.Skills[1].Name())
	assert.False(t, res.Skills[1].IsManaged)
}

func TestListTable(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No skills found.")

	writeSkill(t, h.agentDir(".claude"), "gamma")
	out, err = h.run("", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "gamma")
	assert.Contains(t, out, "unmanaged")
	assert.Contains(t, out, "claude-code")
	assert.Contains(t, out, "1.0.0")
}

func TestStatusReportsConflicts(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No conflicts.")

	writeSkill(t, h.agentDir(".claude"), "dup")
	writeSkill(t, h.agentDir(".codex"), "dup")

	out, err = h.run("", "status")
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindConflict))
	assert.Contains(t, out, "[error] dup: duplicate-unmanaged")
}

func TestInstallAndRemove(t *testing.T) {
	h := newHarness(t)
	src := writeSkill(t, t.TempDir(), "delta")

	out, err := h.run("", "install", src, "--link")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed delta")
	assert.FileExists(t, filepath.Join(h.canonical(), "delta", "SKILL.md"))
	link := filepath.Join(h.agentDir(".claude"), "delta")
	_, err = os.Readlink(link)
	require.NoError(t, err)

	_, err = h.run("", "install", src)
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindConflict))

	out, err = h.run("n\n", "remove", "delta")
	require.NoError(t, err)
	assert.Contains(t, out, "Removal cancelled.")
	_, err = os.Lstat(link)
	require.NoError(t, err)

	_, err = h.run("", "remove", "delta", "--yes", "--purge")
	require.NoError(t, err)
	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
	assert.NoDirExists(t, filepath.Join(h.canonical(), "delta"))
}

func TestAdopt(t *testing.T) {
	h := newHarness(t)
	copyDir := writeSkill(t, h.agentDir(".claude"), "epsilon")

	out, err := h.run("", "adopt", "epsilon")
	require.NoError(t, err)
	assert.Contains(t, out, "Adopted epsilon")

	assert.FileExists(t, filepath.Join(h.canonical(), "epsilon", "SKILL.md"))
	target, err := os.Readlink(copyDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(h.canonical(), "epsilon"), target)
}

func TestValidate(t *testing.T) {
	h := newHarness(t)
	good := writeSkill(t, t.TempDir(), "zeta")

	out, err := h.run("", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "zeta is valid")

	bad := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.MkdirAll(bad, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, "SKILL.md"), []byte("# no frontmatter\n"), 0644))
	_, err = h.run("", "validate", bad)
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindParse))
}

func TestConfigSetGet(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "config", "set", "scan.ignore", "tmp-*, scratch")
	require.NoError(t, err)

	out, err := h.run("", "config", "get", "scan.ignore")
	require.NoError(t, err)
	assert.Equal(t, "tmp-*,scratch\n", out)

	_, err = h.run("", "config", "set", "nope", "x")
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindValidation))
}

func TestCacheCommands(t *testing.T) {
	h := newHarness(t)
	writeSkill(t, h.canonical(), "eta")
	_, err := h.run("", "list")
	require.NoError(t, err)

	out, err := h.run("", "cache", "path")
	require.NoError(t, err)
	cachePath := strings.TrimSpace(out)
	assert.Equal(t, "scan-cache.json", filepath.Base(cachePath))
	assert.FileExists(t, cachePath)

	require.NoError(t, os.RemoveAll(filepath.Join(h.canonical(), "eta")))
	out, err = h.run("", "cache", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 stale cache entries.")

	out, err = h.run("", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared.")
}

func TestVersionShort(t *testing.T) {
	h := newHarness(t)
	buildVersion = "1.2.3"
	out, err := h.run("", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.input), &out, "Proceed?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "? Proceed? (y/N) ", out.String())
	}
}

func TestParseScope(t *testing.T) {
	s, err := parseScope("workspace")
	require.NoError(t, err)
	assert.Equal(t, inventory.ScopeWorkspace, s)

	_, err = parseScope("local")
	require.Error(t, err)
	assert.True(t, skillerr.IsKind(err, skillerr.KindValidation))
}

func TestPrintError(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	printError(&out, errors.New("plain failure"))
	assert.Equal(t, "Error: plain failure\n", out.String())

	out.Reset()
	err := skillerr.New(skillerr.KindNotFound, "skill missing").WithPath("/x/y")
	printError(&out, err)
	assert.Equal(t, 1, strings.Count(out.String(), "/x/y"))
}

package inventory

import (
	"encoding/json"
	"testing"

	"github.com/agentx-labs/skillkit/internal/metadata"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	s, ok := ParseScope("global")
	assert.True(t, ok)
	assert.Equal(t, ScopeGlobal, s)

	s, ok = ParseScope("workspace")
	assert.True(t, ok)
	assert.Equal(t, ScopeWorkspace, s)

	_, ok = ParseScope("project")
	assert.False(t, ok)
}

func TestNewInstallation(t *testing.T) {
	inst := NewInstallation("codex", "/home/u/.codex/skills/demo", ScopeGlobal, platform.Classification{
		Class:     platform.Managed,
		IsLink:    true,
		RawTarget: "../../.skillkit/skills/demo",
		Resolved:  "/home/u/.skillkit/skills/demo",
	})

	require.NotNil(t, inst.IsSymlink)
	assert.True(t, *inst.IsSymlink)
	assert.Equal(t, "../../.skillkit/skills/demo", inst.SymlinkTarget)
	assert.Equal(t, platform.Managed, inst.Class)
}

func TestSortedAndFind(t *testing.T) {
	r := &ScanResult{Skills: []*Skill{
		{Metadata: metadata.SkillMetadata{Name: "zeta"}},
		{Metadata: metadata.SkillMetadata{Name: "alpha"}},
	}}

	sorted := r.Sorted()
	assert.Equal(t, "alpha", sorted[0].Name())
	assert.Equal(t, "zeta", r.Skills[0].Name(), "scan order is untouched")

	assert.NotNil(t, r.Find("zeta"))
	assert.Nil(t, r.Find("missing"))
}

func TestInstallationsFor(t *testing.T) {
	s := &Skill{Installations: []Installation{
		{AgentID: "codex", Path: "/a"},
		{AgentID: "cursor", Path: "/b"},
		{AgentID: "codex", Path: "/c"},
	}}
	assert.Len(t, s.InstallationsFor("codex"), 2)
	assert.Empty(t, s.InstallationsFor("gemini"))
}

func TestInstallationJSONUsesClassName(t *testing.T) {
	data, err := json.Marshal(Installation{AgentID: "codex", Class: platform.ForeignSymlink})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"class":"foreign-symlink"`)
}

// Package inventory holds the data model produced by a scan: skills keyed by
// metadata name, each with the installations observed across agent roots.
// Values are rebuilt from scratch on every scan and never mutated afterwards.
package inventory

import (
	"sort"

	"github.com/agentx-labs/skillkit/internal/metadata"
	"github.com/agentx-labs/skillkit/internal/platform"
)

// Scope distinguishes per-user from per-project agent roots.
type Scope string

const (
	ScopeGlobal    Scope = "global"
	ScopeWorkspace Scope = "workspace"
)

// ParseScope converts a string to a Scope, returning false if invalid.
func ParseScope(s string) (Scope, bool) {
	switch s {
	case "global":
		return ScopeGlobal, true
	case "workspace":
		return ScopeWorkspace, true
	default:
		return "", false
	}
}

// Installation is one observed location of a skill.
type Installation struct {
	AgentID        string                     `json:"agent_id"`
	Path           string                     `json:"path"`
	Scope          Scope                      `json:"scope"`
	IsSymlink      *bool                      `json:"is_symlink,omitempty"`
	SymlinkTarget  string                     `json:"symlink_target,omitempty"`
	Class          platform.InstallationClass `json:"class"`
	ResolvedTarget string                     `json:"resolved_target,omitempty"`
}

// NewInstallation builds an installation from a classification result.
func NewInstallation(agentID, path string, scope Scope, c platform.Classification) Installation {
	isLink := c.IsLink
	return Installation{
		AgentID:        agentID,
		Path:           path,
		Scope:          scope,
		IsSymlink:      &isLink,
		SymlinkTarget:  c.RawTarget,
		Class:          c.Class,
		ResolvedTarget: c.Resolved,
	}
}

// Skill aggregates every installation sharing one metadata name.
type Skill struct {
	Metadata      metadata.SkillMetadata `json:"metadata"`
	DirectoryName string                 `json:"directory_name"`
	Installations []Installation         `json:"installations"`
	IsManaged     bool                   `json:"is_managed"`
	RepoPath      string                 `json:"repo_path,omitempty"`
}

// Name returns the skill's identity.
func (s *Skill) Name() string {
	return s.Metadata.Name
}

// InstallationsFor returns the installations belonging to one agent.
func (s *Skill) InstallationsFor(agentID string) []Installation {
	var out []Installation
	for _, inst := range s.Installations {
		if inst.AgentID == agentID {
			out = append(out, inst)
		}
	}
	return out
}

// ParseFailure records a child directory whose descriptor could not be used.
type ParseFailure struct {
	Path    string `json:"path"`
	AgentID string `json:"agent_id,omitempty"`
	Reason  string `json:"reason"`
}

// BrokenLink records a dangling symlink found in an agent root. Its
// descriptor is unreadable, so it cannot be attributed to a skill.
type BrokenLink struct {
	AgentID string `json:"agent_id"`
	Scope   Scope  `json:"scope"`
	Path    string `json:"path"`
	Target  string `json:"target"`
}

// ScanResult is the full inventory produced by one scan.
type ScanResult struct {
	Skills      []*Skill       `json:"skills"`
	ParseErrors []ParseFailure `json:"parse_errors"`
	BrokenLinks []BrokenLink   `json:"broken_links,omitempty"`
}

// Find returns the skill with the given name, or nil.
func (r *ScanResult) Find(name string) *Skill {
	for _, s := range r.Skills {
		if s.Metadata.Name == name {
			return s
		}
	}
	return nil
}

// Sorted returns the skills ordered by name. The scan itself keeps
// first-seen order.
func (r *ScanResult) Sorted() []*Skill {
	out := make([]*Skill, len(r.Skills))
	copy(out, r.Skills)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Metadata.Name < out[j].Metadata.Name
	})
	return out
}

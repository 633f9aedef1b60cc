package conflict

import (
	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/platform"
)

// WarningKind names a state worth reporting that is not a conflict.
type WarningKind string

const (
	// ForeignSymlink is a link resolving outside the canonical root.
	ForeignSymlink WarningKind = "foreign-symlink"
	// BrokenSymlink is a link whose target cannot be resolved.
	BrokenSymlink WarningKind = "broken-symlink"
	// MixedState is one physical copy alongside managed links.
	MixedState WarningKind = "mixed-state"
)

// Warning is a non-fatal finding. SkillName is empty for broken links,
// which have no readable descriptor.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	SkillName string      `json:"skill_name,omitempty"`
	Location  Location    `json:"location"`
	Message   string      `json:"message"`
}

// Warnings lists foreign links, broken links and mixed managed/unmanaged
// skills found in res.
func Warnings(res *inventory.ScanResult) []Warning {
	var out []Warning
	for _, skill := range res.Skills {
		managed, unmanaged := partition(skill.Installations)
		for _, inst := range skill.Installations {
			if inst.Class == platform.ForeignSymlink {
				out = append(out, Warning{
					Kind:      ForeignSymlink,
					SkillName: skill.Name(),
					Location:  locations([]inventory.Installation{inst})[0],
					Message:   "links outside the canonical root to " + inst.ResolvedTarget,
				})
			}
		}
		if len(unmanaged) == 1 && len(managed) > 0 {
			out = append(out, Warning{
				Kind:      MixedState,
				SkillName: skill.Name(),
				Location:  locations(unmanaged)[0],
				Message:   "unmanaged copy alongside managed links; adopt or remove it",
			})
		}
	}
	for _, bl := range res.BrokenLinks {
		out = append(out, Warning{
			Kind: BrokenSymlink,
			Location: Location{
				AgentID: bl.AgentID,
				Scope:   bl.Scope,
				Path:    bl.Path,
				Class:   platform.BrokenSymlink,
			},
			Message: "target " + bl.Target + " does not resolve",
		})
	}
	return out
}

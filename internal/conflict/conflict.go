// Package conflict inspects a scan result for skills whose installations
// disagree about where the source of truth lives.
package conflict

import (
	"fmt"

	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/platform"
)

// Type classifies a conflict.
type Type string

const (
	// DuplicateUnmanaged means several physical copies claim the same name.
	DuplicateUnmanaged Type = "duplicate-unmanaged"
	// DuplicateManaged means several agents link the same canonical copy.
	DuplicateManaged Type = "duplicate-managed"
)

// Severity grades how a conflict should be reported.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severity returns the severity conflicts of this type carry.
func (t Type) Severity() Severity {
	switch t {
	case DuplicateUnmanaged:
		return SeverityError
	case DuplicateManaged:
		return SeverityInfo
	default:
		panic(fmt.Sprintf("conflict: unknown type %q", string(t)))
	}
}

// Location is one installation involved in a conflict.
type Location struct {
	AgentID string                     `json:"agent_id"`
	Scope   inventory.Scope            `json:"scope"`
	Path    string                     `json:"path"`
	Class   platform.InstallationClass `json:"class"`
}

// Conflict is one finding for one skill.
type Conflict struct {
	SkillName string     `json:"skill_name"`
	Type      Type       `json:"type"`
	Locations []Location `json:"locations"`
}

// Detect returns the conflicts in res, in skill order. It performs no I/O.
func Detect(res *inventory.ScanResult) []Conflict {
	var out []Conflict
	for _, skill := range res.Skills {
		managed, unmanaged := partition(skill.Installations)

		if distinctPaths(unmanaged) > 1 {
			out = append(out, Conflict{
				SkillName: skill.Name(),
				Type:      DuplicateUnmanaged,
				Locations: locations(unmanaged),
			})
		}
		if len(managed) > 1 && sameTarget(managed) {
			out = append(out, Conflict{
				SkillName: skill.Name(),
				Type:      DuplicateManaged,
				Locations: locations(managed),
			})
		}
	}
	return out
}

// HasErrors reports whether any conflict is error-class.
func HasErrors(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Type.Severity() == SeverityError {
			return true
		}
	}
	return false
}

// partition splits installations by class. Foreign and broken links belong
// to neither set.
func partition(installs []inventory.Installation) (managed, unmanaged []inventory.Installation) {
	for _, inst := range installs {
		switch inst.Class {
		case platform.Managed:
			managed = append(managed, inst)
		case platform.Unmanaged:
			unmanaged = append(unmanaged, inst)
		case platform.ForeignSymlink, platform.BrokenSymlink:
		default:
			panic(fmt.Sprintf("conflict: unhandled installation class %d", int(inst.Class)))
		}
	}
	return managed, unmanaged
}

func distinctPaths(installs []inventory.Installation) int {
	seen := make(map[string]bool, len(installs))
	for _, inst := range installs {
		seen[inst.Path] = true
	}
	return len(seen)
}

func sameTarget(installs []inventory.Installation) bool {
	target := installs[0].ResolvedTarget
	for _, inst := range installs[1:] {
		if inst.ResolvedTarget != target {
			return false
		}
	}
	return target != ""
}

func locations(installs []inventory.Installation) []Location {
	out := make([]Location, len(installs))
	for i, inst := range installs {
		out[i] = Location{AgentID: inst.AgentID, Scope: inst.Scope, Path: inst.Path, Class: inst.Class}
	}
	return out
}

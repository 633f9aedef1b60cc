package manager

import (
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/skillerr"
)

// RemoveOptions controls Remove.
type RemoveOptions struct {
	// Confirmed must be true; nothing is removed otherwise.
	Confirmed bool
	// Purge also deletes the canonical copy.
	Purge bool
	// Agents limits which agents are unlinked; empty means all.
	Agents []string
}

// RemoveResult describes a completed removal.
type RemoveResult struct {
	Name     string   `json:"name"`
	Unlinked []string `json:"unlinked"`
	Purged   string   `json:"purged,omitempty"`
	// Kept lists unmanaged copies, which Remove never deletes.
	Kept []string `json:"kept,omitempty"`
}

// Remove unlinks the managed installations of name and, with Purge, deletes
// its canonical copy. Unmanaged copies are left alone.
func (m *Manager) Remove(name string, opts RemoveOptions) (*RemoveResult, error) {
	defer logging.LogOperationStart(m.logger, "remove")()

	if !opts.Confirmed {
		return nil, skillerr.Newf(skillerr.KindValidation, "removing %q requires confirmation", name)
	}
	if opts.Purge && len(opts.Agents) > 0 {
		return nil, skillerr.New(skillerr.KindValidation, "purge removes the canonical copy for every agent; drop the agent filter")
	}

	res := m.scanner.Scan()
	skill := res.Find(name)
	if skill == nil {
		return nil, skillerr.Newf(skillerr.KindNotFound, "skill %q not found", name)
	}

	only := agentSet(opts.Agents)
	result := &RemoveResult{Name: name}
	for _, inst := range skill.Installations {
		if only != nil && !only[inst.AgentID] {
			continue
		}
		switch inst.Class {
		case platform.Managed:
			if err := m.mutator.RemoveTree(inst.Path, true); err != nil {
				return result, err
			}
			m.invalidate(inst.Path)
			result.Unlinked = append(result.Unlinked, inst.Path)
		case platform.Unmanaged:
			result.Kept = append(result.Kept, inst.Path)
		case platform.ForeignSymlink, platform.BrokenSymlink:
		}
	}

	if opts.Purge && m.isCanonical(skill) {
		if err := m.mutator.RemoveTree(skill.RepoPath, true); err != nil {
			return result, err
		}
		m.invalidate(skill.RepoPath)
		result.Purged = skill.RepoPath
	}

	m.logger.Info().Str("skill", name).Int("unlinked", len(result.Unlinked)).Bool("purged", result.Purged != "").Msg("Removed skill")
	return result, nil
}

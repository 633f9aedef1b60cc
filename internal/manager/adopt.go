package manager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/mutator"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/skillerr"
)

// AdoptOptions controls Adopt.
type AdoptOptions struct {
	// From picks the authoritative copy by agent id or path when several
	// unmanaged copies exist.
	From string
	// Scope narrows From when an agent has copies in both scopes.
	Scope inventory.Scope
	// Force replaces an existing canonical copy.
	Force bool
}

// AdoptResult describes a completed adoption.
type AdoptResult struct {
	Name     string `json:"name"`
	From     string `json:"from"`
	RepoPath string `json:"repo_path"`
	// Remaining lists unmanaged copies left in place.
	Remaining []string `json:"remaining,omitempty"`
}

// Adopt moves an unmanaged copy of name into the canonical root and puts a
// managed link where it was.
func (m *Manager) Adopt(name string, opts AdoptOptions) (*AdoptResult, error) {
	defer logging.LogOperationStart(m.logger, "adopt")()

	res := m.scanner.Scan()
	skill := res.Find(name)
	if skill == nil {
		return nil, skillerr.Newf(skillerr.KindNotFound, "skill %q not found", name)
	}

	source, rest, err := pickAuthority(skill, opts)
	if err != nil {
		return nil, err
	}

	root := m.classifier.Root()
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, skillerr.Wrap(err, skillerr.KindIO, "creating canonical root").WithPath(root)
	}
	dest := filepath.Join(root, name)

	if err := m.moveInto(source.Path, dest, opts.Force); err != nil {
		return nil, err
	}
	if err := platform.CreateSymlink(dest, source.Path); err != nil {
		// Put the copy back so the agent keeps working.
		if rbErr := m.mutator.MoveTree(dest, source.Path); rbErr != nil {
			return nil, fmt.Errorf("linking %s failed (%v) and restoring it failed: %w", source.Path, err, rbErr)
		}
		return nil, skillerr.Wrap(err, skillerr.KindIO, "replacing copy with link; original restored").WithPath(source.Path)
	}
	m.invalidate(source.Path, dest)
	m.logger.Info().Str("skill", name).Str("from", source.Path).Str("path", dest).Msg("Adopted skill")

	result := &AdoptResult{Name: name, From: source.Path, RepoPath: dest}
	for _, inst := range rest {
		result.Remaining = append(result.Remaining, inst.Path)
	}
	return result, nil
}

// moveInto moves src to dest, swapping out an existing dest when force is
// set and restoring it if the move fails.
func (m *Manager) moveInto(src, dest string, force bool) error {
	if _, err := os.Lstat(dest); err != nil {
		return m.mutator.MoveTree(src, dest)
	}
	if !force {
		return skillerr.New(skillerr.KindConflict, "a canonical copy already exists; use --force to replace it").WithPath(dest)
	}

	backup := mutator.BackupPath(dest)
	if err := os.Rename(dest, backup); err != nil {
		return skillerr.Wrap(err, skillerr.KindIO, "backing up canonical copy").WithPath(dest)
	}
	if err := m.mutator.MoveTree(src, dest); err != nil {
		if rErr := os.Rename(backup, dest); rErr != nil {
			return fmt.Errorf("%w (restoring %s failed: %v)", err, dest, rErr)
		}
		return err
	}
	if err := os.RemoveAll(backup); err != nil {
		m.logger.Warn().Err(err).Str("backup", backup).Msg("Could not remove backup")
	}
	return nil
}

// pickAuthority selects the unmanaged installation to adopt and returns the
// other unmanaged installations.
func pickAuthority(skill *inventory.Skill, opts AdoptOptions) (inventory.Installation, []inventory.Installation, error) {
	var unmanaged []inventory.Installation
	for _, inst := range skill.Installations {
		if inst.Class == platform.Unmanaged {
			unmanaged = append(unmanaged, inst)
		}
	}
	if len(unmanaged) == 0 {
		return inventory.Installation{}, nil, skillerr.Newf(skillerr.KindValidation,
			"skill %q has no unmanaged copy to adopt", skill.Name())
	}

	var candidates []inventory.Installation
	if opts.From == "" {
		candidates = unmanaged
	} else {
		fromPath, _ := filepath.Abs(opts.From)
		for _, inst := range unmanaged {
			byAgent := inst.AgentID == opts.From && (opts.Scope == "" || inst.Scope == opts.Scope)
			if byAgent || inst.Path == fromPath {
				candidates = append(candidates, inst)
			}
		}
		if len(candidates) == 0 {
			return inventory.Installation{}, nil, skillerr.Newf(skillerr.KindNotFound,
				"no unmanaged copy of %q matches %q", skill.Name(), opts.From)
		}
	}

	if len(candidates) > 1 {
		return inventory.Installation{}, nil, skillerr.Newf(skillerr.KindConflict,
			"skill %q has %d unmanaged copies; choose one with --from", skill.Name(), len(candidates)).
			WithDetail("paths", paths(candidates))
	}

	chosen := candidates[0]
	var rest []inventory.Installation
	for _, inst := range unmanaged {
		if inst.Path != chosen.Path {
			rest = append(rest, inst)
		}
	}
	return chosen, rest, nil
}

func paths(installs []inventory.Installation) []string {
	out := make([]string, len(installs))
	for i, inst := range installs {
		out[i] = inst.Path
	}
	return out
}

package manager

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/logging"
	"github.com/agentx-labs/skillkit/internal/platform"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/hashicorp/go-multierror"
)

// Action is what Sync did at one agent location.
type Action string

const (
	ActionLinked    Action = "linked"
	ActionRelinked  Action = "relinked"
	ActionUnchanged Action = "unchanged"
	ActionSkipped   Action = "skipped"
)

// SyncOptions selects what Sync links.
type SyncOptions struct {
	// Names limits the skills synced; empty means every canonical skill.
	Names []string
	// Agents limits the agents linked into; empty means every enabled agent.
	Agents []string
	// Scope picks global or workspace directories; empty means global.
	Scope inventory.Scope
	// Force replaces broken and foreign links. Unmanaged copies are never
	// replaced.
	Force bool
}

// SyncAction records the outcome at one location.
type SyncAction struct {
	Skill   string          `json:"skill"`
	AgentID string          `json:"agent_id"`
	Scope   inventory.Scope `json:"scope"`
	Path    string          `json:"path"`
	Action  Action          `json:"action"`
	Reason  string          `json:"reason,omitempty"`
}

// SyncReport lists every location Sync considered.
type SyncReport struct {
	Actions []SyncAction `json:"actions"`
}

// Count returns how many actions had the given outcome.
func (r *SyncReport) Count(a Action) int {
	n := 0
	for _, act := range r.Actions {
		if act.Action == a {
			n++
		}
	}
	return n
}

// Sync links canonical skills into agent directories. Per-location
// failures are collected; the report covers every location either way.
func (m *Manager) Sync(opts SyncOptions) (*SyncReport, error) {
	defer logging.LogOperationStart(m.logger, "sync")()

	res := m.scanner.Scan()

	skills, err := m.canonicalSkills(res, opts.Names)
	if err != nil {
		return nil, err
	}
	targets, err := m.targets(opts.Agents, opts.Scope)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{}
	var errs *multierror.Error
	for _, skill := range skills {
		for _, t := range targets {
			act, err := m.syncOne(skill, t, opts.Force)
			report.Actions = append(report.Actions, act)
			if err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}

	m.logger.Info().
		Int("linked", report.Count(ActionLinked)).
		Int("relinked", report.Count(ActionRelinked)).
		Int("skipped", report.Count(ActionSkipped)).
		Msg("Sync complete")
	return report, errs.ErrorOrNil()
}

// canonicalSkills returns the skills with a canonical copy, limited to names.
func (m *Manager) canonicalSkills(res *inventory.ScanResult, names []string) ([]*inventory.Skill, error) {
	if len(names) == 0 {
		var out []*inventory.Skill
		for _, s := range res.Sorted() {
			if m.isCanonical(s) {
				out = append(out, s)
			}
		}
		return out, nil
	}

	out := make([]*inventory.Skill, 0, len(names))
	for _, name := range names {
		s := res.Find(name)
		if s == nil || !m.isCanonical(s) {
			return nil, skillerr.Newf(skillerr.KindNotFound, "skill %q has no canonical copy", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// isCanonical reports whether the skill's repo path is a direct child of the
// canonical root.
func (m *Manager) isCanonical(s *inventory.Skill) bool {
	return s.RepoPath != "" && filepath.Dir(filepath.Clean(s.RepoPath)) == m.classifier.Root()
}

func (m *Manager) syncOne(skill *inventory.Skill, t target, force bool) (SyncAction, error) {
	link := filepath.Join(t.Root, skill.Name())
	act := SyncAction{Skill: skill.Name(), AgentID: t.AgentID, Scope: t.Scope, Path: link}

	if _, err := os.Lstat(link); errors.Is(err, fs.ErrNotExist) {
		if err := platform.CreateSymlink(skill.RepoPath, link); err != nil {
			act.Action, act.Reason = ActionSkipped, err.Error()
			return act, skillerr.Wrap(err, skillerr.KindIO, "creating link").WithPath(link)
		}
		m.invalidate(link)
		act.Action = ActionLinked
		return act, nil
	}

	cls := m.classifier.Classify(link)
	switch cls.Class {
	case platform.Managed:
		act.Action = ActionUnchanged
		if cls.Resolved != skill.RepoPath {
			act.Reason = "links another canonical copy: " + cls.Resolved
		}
		return act, nil
	case platform.Unmanaged:
		act.Action, act.Reason = ActionSkipped, "unmanaged copy present; adopt it first"
		return act, nil
	case platform.ForeignSymlink, platform.BrokenSymlink:
		if !force {
			act.Action, act.Reason = ActionSkipped, cls.Class.String()+" present; use --force to replace"
			return act, nil
		}
		if err := platform.RemoveSymlink(link); err != nil {
			act.Action, act.Reason = ActionSkipped, err.Error()
			return act, err
		}
		if err := platform.CreateSymlink(skill.RepoPath, link); err != nil {
			act.Action, act.Reason = ActionSkipped, err.Error()
			return act, skillerr.Wrap(err, skillerr.KindIO, "creating link").WithPath(link)
		}
		m.invalidate(link)
		act.Action = ActionRelinked
		return act, nil
	default:
		panic("manager: unhandled installation class " + cls.Class.String())
	}
}

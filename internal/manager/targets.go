package manager

import (
	"github.com/agentx-labs/skillkit/internal/config"
	"github.com/agentx-labs/skillkit/internal/inventory"
	"github.com/agentx-labs/skillkit/internal/skillerr"
)

// target is one agent directory a workflow writes into.
type target struct {
	AgentID string
	Scope   inventory.Scope
	Root    string
}

// targets resolves the enabled agents named in ids (all enabled agents
// when empty) to their directory for scope.
func (m *Manager) targets(ids []string, scope inventory.Scope) ([]target, error) {
	if scope == "" {
		scope = inventory.ScopeGlobal
	}

	var selected []config.AgentSettings
	if len(ids) == 0 {
		selected = m.settings.EnabledAgents()
	} else {
		for _, id := range ids {
			a, ok := m.settings.Agent(id)
			if !ok {
				return nil, skillerr.Newf(skillerr.KindValidation, "unknown agent %q", id)
			}
			if !a.Enabled {
				return nil, skillerr.Newf(skillerr.KindValidation, "agent %q is disabled", id)
			}
			selected = append(selected, a)
		}
	}

	var out []target
	for _, a := range selected {
		root := a.GlobalPath
		if scope == inventory.ScopeWorkspace {
			root = a.WorkspacePath
		}
		if root == "" {
			continue
		}
		out = append(out, target{AgentID: a.ID, Scope: scope, Root: root})
	}
	return out, nil
}

func agentSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

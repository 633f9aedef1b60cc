package agents

// ID identifies a consuming agent.
type ID string

const (
	ClaudeCode ID = "claude-code"
	Codex      ID = "codex"
	Cursor     ID = "cursor"
	Gemini     ID = "gemini"
	OpenCode   ID = "opencode"
	Copilot    ID = "copilot"
)

// Agent describes where a known agent looks for skills.
type Agent struct {
	ID          ID
	DisplayName string
	// GlobalDir is relative to the user's home directory.
	GlobalDir string
	// WorkspaceDir is relative to the workspace root.
	WorkspaceDir string
}

// registry lists known agents in presentation and scan order.
var registry = []Agent{
	{ID: ClaudeCode, DisplayName: "Claude Code", GlobalDir: ".claude/skills", WorkspaceDir: ".claude/skills"},
	{ID: Codex, DisplayName: "Codex", GlobalDir: ".codex/skills", WorkspaceDir: ".codex/skills"},
	{ID: Cursor, DisplayName: "Cursor", GlobalDir: ".cursor/skills", WorkspaceDir: ".cursor/skills"},
	{ID: Gemini, DisplayName: "Gemini CLI", GlobalDir: ".gemini/skills", WorkspaceDir: ".gemini/skills"},
	{ID: OpenCode, DisplayName: "OpenCode", GlobalDir: ".config/opencode/skill", WorkspaceDir: ".opencode/skill"},
	{ID: Copilot, DisplayName: "GitHub Copilot", GlobalDir: ".copilot/skills", WorkspaceDir: ".github/skills"},
}

// All returns every known agent in registry order.
func All() []Agent {
	out := make([]Agent, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the ids of every known agent in registry order.
func IDs() []ID {
	ids := make([]ID, len(registry))
	for i, a := range registry {
		ids[i] = a.ID
	}
	return ids
}

// Lookup returns the known agent with the given id.
func Lookup(id string) (Agent, bool) {
	for _, a := range registry {
		if string(a.ID) == id {
			return a, true
		}
	}
	return Agent{}, false
}

// IsKnown reports whether id names a built-in agent.
func IsKnown(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Index returns the registry position of id, or -1 for custom agents.
func Index(id string) int {
	for i, a := range registry {
		if string(a.ID) == id {
			return i
		}
	}
	return -1
}

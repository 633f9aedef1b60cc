package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentx-labs/skillkit/internal/agents"
	"github.com/agentx-labs/skillkit/internal/branding"
	"github.com/agentx-labs/skillkit/internal/cache"
	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// SkillsDir is the canonical root's name under the home directory.
	SkillsDir = "skills"
)

// Keys accepted by Get and Set.
const (
	KeyCanonicalRoot = "canonical_root"
	KeyCachePath     = "cache_path"
	KeyWorkspace     = "workspace"
	KeyScanIgnore    = "scan.ignore"
)

// Dir returns the skillkit home directory. SKILLKIT_HOME overrides the
// default of ~/.skillkit.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Options carries overrides supplied on the command line.
type Options struct {
	// ConfigFile replaces the default config file location.
	ConfigFile string
	// Workspace replaces the configured workspace root.
	Workspace string
	// Home replaces the user's home directory for path expansion.
	Home string
	// NoCache bypasses the scan cache.
	NoCache bool
}

// AgentSettings is one agent with its skill directories resolved.
type AgentSettings struct {
	ID            string
	Enabled       bool
	Custom        bool
	GlobalPath    string
	WorkspacePath string
}

// Settings is the fully resolved configuration. All paths are absolute.
type Settings struct {
	ConfigFile    string
	CanonicalRoot string
	CachePath     string
	Workspace     string
	NoCache       bool
	Ignore        []string
	// Agents lists known agents in registry order, then custom agents by id.
	Agents []AgentSettings

	v *viper.Viper
}

// Load reads the config file (a missing file is not an error) and the
// environment, then resolves every path.
func Load(opts Options) (*Settings, error) {
	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		home = h
	}

	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = FilePath()
	}

	v, err := newViper(configFile)
	if err != nil {
		return nil, err
	}
	v.SetDefault(KeyCanonicalRoot, filepath.Join("~", branding.HomeDir(), SkillsDir))
	v.SetDefault(KeyScanIgnore, []string{})

	workspace := opts.Workspace
	if workspace == "" {
		workspace = v.GetString(KeyWorkspace)
	}
	if workspace == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		workspace = wd
	}
	workspace, err = resolvePath(workspace, home, "")
	if err != nil {
		return nil, err
	}

	canonical, err := resolvePath(v.GetString(KeyCanonicalRoot), home, "")
	if err != nil {
		return nil, err
	}

	cachePath := cache.DefaultPath()
	if p := v.GetString(KeyCachePath); p != "" {
		if cachePath, err = resolvePath(p, home, ""); err != nil {
			return nil, err
		}
	}

	agentList, err := resolveAgents(v, home, workspace)
	if err != nil {
		return nil, err
	}

	return &Settings{
		ConfigFile:    configFile,
		CanonicalRoot: canonical,
		CachePath:     cachePath,
		Workspace:     workspace,
		NoCache:       opts.NoCache,
		Ignore:        v.GetStringSlice(KeyScanIgnore),
		Agents:        agentList,
		v:             v,
	}, nil
}

func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}
	return v, nil
}

func resolveAgents(v *viper.Viper, home, workspace string) ([]AgentSettings, error) {
	var out []AgentSettings

	for _, a := range agents.All() {
		id := string(a.ID)
		enabledKey := "agents." + id + ".enabled"
		v.SetDefault(enabledKey, true)

		global := filepath.Join(home, a.GlobalDir)
		if p := v.GetString("agents." + id + ".global_path"); p != "" {
			resolved, err := resolvePath(p, home, home)
			if err != nil {
				return nil, err
			}
			global = resolved
		}
		ws := filepath.Join(workspace, a.WorkspaceDir)
		if p := v.GetString("agents." + id + ".workspace_path"); p != "" {
			resolved, err := resolvePath(p, home, workspace)
			if err != nil {
				return nil, err
			}
			ws = resolved
		}

		out = append(out, AgentSettings{
			ID:            id,
			Enabled:       v.GetBool(enabledKey),
			GlobalPath:    global,
			WorkspacePath: ws,
		})
	}

	var custom []string
	for id := range v.GetStringMap("agents") {
		if !agents.IsKnown(id) {
			custom = append(custom, id)
		}
	}
	sort.Strings(custom)

	for _, id := range custom {
		prefix := "agents." + id + "."
		v.SetDefault(prefix+"enabled", true)

		globalRaw := v.GetString(prefix + "global_path")
		wsRaw := v.GetString(prefix + "workspace_path")
		if globalRaw == "" && wsRaw == "" {
			return nil, skillerr.Newf(skillerr.KindValidation,
				"custom agent %q needs global_path or workspace_path", id)
		}

		as := AgentSettings{ID: id, Custom: true, Enabled: v.GetBool(prefix + "enabled")}
		if globalRaw != "" {
			p, err := resolvePath(globalRaw, home, home)
			if err != nil {
				return nil, err
			}
			as.GlobalPath = p
		}
		if wsRaw != "" {
			p, err := resolvePath(wsRaw, home, workspace)
			if err != nil {
				return nil, err
			}
			as.WorkspacePath = p
		}
		out = append(out, as)
	}
	return out, nil
}

// resolvePath expands a leading ~ and anchors relative paths at base
// (the working directory when base is empty).
func resolvePath(p, home, base string) (string, error) {
	switch {
	case p == "~":
		p = home
	case strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)):
		p = filepath.Join(home, p[2:])
	case !filepath.IsAbs(p) && base != "":
		p = filepath.Join(base, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", p, err)
	}
	return abs, nil
}

// Agent returns the settings of one agent.
func (s *Settings) Agent(id string) (AgentSettings, bool) {
	for _, a := range s.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return AgentSettings{}, false
}

// EnabledAgents returns enabled agents in configuration order.
func (s *Settings) EnabledAgents() []AgentSettings {
	var out []AgentSettings
	for _, a := range s.Agents {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}

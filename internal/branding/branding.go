// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded into the binary; forks edit it to rename the
// tool, its home directory and its environment variable prefix.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	HomeDir        string `yaml:"home_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	GoModule       string `yaml:"go_module"`
	DescriptorFile string `yaml:"descriptor_file"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:        "skillkit",
			DisplayName:    "Skillkit",
			Description:    "Keep agent skills in one canonical place and linked everywhere else",
			HomeDir:        ".skillkit",
			EnvPrefix:      "SKILLKIT",
			GoModule:       "github.com/agentx-labs/skillkit",
			DescriptorFile: "SKILL.md",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "skillkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".skillkit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SKILLKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// DescriptorFile returns the name of the metadata file every skill directory carries.
func DescriptorFile() string { load(); return defaults.DescriptorFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "SKILLKIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

// BackupSuffix is the infix used for temporary backups created during
// cross-device moves, so stray artifacts are easy to recognize.
func BackupSuffix() string {
	load()
	return "." + defaults.CLIName + "-backup"
}

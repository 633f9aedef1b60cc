package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/skillkit/internal/skillerr"
	"github.com/spf13/viper"
)

var agentFields = map[string]bool{
	"enabled":        true,
	"global_path":    true,
	"workspace_path": true,
}

// ValidKey reports whether key can be read or written by Get and Set.
func ValidKey(key string) bool {
	switch key {
	case KeyCanonicalRoot, KeyCachePath, KeyWorkspace, KeyScanIgnore:
		return true
	}
	parts := strings.Split(key, ".")
	return len(parts) == 3 && parts[0] == "agents" && parts[1] != "" && agentFields[parts[2]]
}

// Get returns the effective value of key, including defaults and
// environment overrides. List values are joined with commas.
func (s *Settings) Get(key string) (string, error) {
	if !ValidKey(key) {
		return "", skillerr.Newf(skillerr.KindValidation, "unknown config key %q", key)
	}
	if key == KeyScanIgnore {
		return strings.Join(s.v.GetStringSlice(key), ","), nil
	}
	return s.v.GetString(key), nil
}

// Set writes key to the config file. Only values already in the file and
// the new key are written; defaults and environment values are not.
func (s *Settings) Set(key, value string) error {
	if !ValidKey(key) {
		return skillerr.Newf(skillerr.KindValidation, "unknown config key %q", key)
	}

	dir := filepath.Dir(s.ConfigFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	fv := viper.New()
	fv.SetConfigFile(s.ConfigFile)
	fv.SetConfigType(fileType)
	if _, err := os.Stat(s.ConfigFile); err == nil {
		if err := fv.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", s.ConfigFile, err)
		}
	}

	var typed interface{} = value
	switch {
	case key == KeyScanIgnore:
		typed = splitList(value)
	case strings.HasSuffix(key, ".enabled"):
		switch strings.ToLower(value) {
		case "true", "yes", "1":
			typed = true
		case "false", "no", "0":
			typed = false
		default:
			return skillerr.Newf(skillerr.KindValidation, "%s must be true or false, got %q", key, value)
		}
	}

	fv.Set(key, typed)
	if err := fv.WriteConfigAs(s.ConfigFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	s.v.Set(key, typed)
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

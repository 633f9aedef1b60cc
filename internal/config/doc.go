// Package config loads skillkit settings from ~/.skillkit/config.yaml and
// SKILLKIT_* environment variables into an explicit Settings value.
//
// Nothing below the CLI reads configuration on its own; every component is
// constructed from the Settings returned by Load.
package config

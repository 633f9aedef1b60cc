package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedValues(t *testing.T) {
	assert.Equal(t, "skillkit", CLIName())
	assert.Equal(t, ".skillkit", HomeDir())
	assert.Equal(t, "SKILLKIT", EnvPrefix())
	assert.Equal(t, "SKILL.md", DescriptorFile())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "SKILLKIT_CONFIG", EnvVar("config"))
	assert.Equal(t, "SKILLKIT_CANONICAL_ROOT", EnvVar("canonical_root"))
}

func TestBackupSuffix(t *testing.T) {
	assert.Equal(t, ".skillkit-backup", BackupSuffix())
}

package logging

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, levelFor(0))
	assert.Equal(t, zerolog.InfoLevel, levelFor(1))
	assert.Equal(t, zerolog.DebugLevel, levelFor(2))
	assert.Equal(t, zerolog.TraceLevel, levelFor(5))
}

func TestGetLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("scanner")
	logger.Warn().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"scanner"`)
	assert.Contains(t, buf.String(), "hello")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	done := LogOperationStart(logger, "scan")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Equal(t, 2, strings.Count(out, `"operation":"scan"`))
}

func TestLogFilePath(t *testing.T) {
	assert.True(t, strings.HasSuffix(LogFilePath(), "skillkit.log"))
}

func TestLogFilePath_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.log")
	t.Setenv("SKILLKIT_LOG_FILE", path)
	assert.Equal(t, path, LogFilePath())
}

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "geniusprep.log")

	log, closeLog, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	log.Debug("dispatch", zap.String("feature", "quiz"))
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "dispatch", line["msg"])
	assert.Equal(t, "quiz", line["feature"])
	assert.Equal(t, "debug", line["level"])
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog, err := New(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)
	defer closeLog()

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
}

func TestNewNoOutputs(t *testing.T) {
	log, closeLog, err := New(Options{})
	require.NoError(t, err)
	closeLog()
	assert.NotNil(t, log)
}

func TestNewBadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/geniusprep/geniusprep.log", p)
}

func TestNop(t *testing.T) {
	Nop().Info("discarded")
}

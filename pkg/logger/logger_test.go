package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWriter(Config{Level: "warn", JSON: true}, &buf))

	log.Info().Msg("hidden")
	log.Warn().Str("device", "panel").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "panel", entry["device"])
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
}

func TestInitWriter_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWriter(Config{Level: "error", Debug: true}, &buf))
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())
}

func TestInitWriter_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, InitWriter(Config{Level: "loud"}, &buf))
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PATRIOT_LOG_LEVEL", "debug")
	t.Setenv("PATRIOT_LOG_JSON", "yes")
	t.Setenv("PATRIOT_DEBUG", "")

	cfg := DefaultConfig()
	assert.Equal(t, Config{Level: "debug", JSON: true}, cfg)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWriter(Config{JSON: true}, &buf))

	l := WithComponent("api")
	l.Info().Msg("hi")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "api", entry["component"])
}

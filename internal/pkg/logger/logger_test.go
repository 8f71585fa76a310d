package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("production", "", &buf)
	require.NoError(t, err)

	cl := Component(l, "notifications")
	cl.Info().Str("user_id", "u1").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "notifications", entry["component"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, "hello", entry["message"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("production", "warn", &buf)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	_, err := NewWithWriter("production", "loud", &bytes.Buffer{})
	assert.Error(t, err)
}

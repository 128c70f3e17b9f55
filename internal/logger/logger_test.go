package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	InitializeWriter(&buf, "warn", "json")
	t.Cleanup(func() { defaultLogger = nil })

	Info("dropped")
	WithService("branch").Warn("kept", "id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "branch", entry["service"])
	assert.EqualValues(t, 7, entry["id"])
}

func TestGetInitializesDefault(t *testing.T) {
	defaultLogger = nil
	assert.NotNil(t, Get())
}

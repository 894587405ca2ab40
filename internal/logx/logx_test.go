package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("production"))
	assert.Equal(t, Testing, ParseEnvironment("testing"))
	assert.Equal(t, Development, ParseEnvironment("staging"))
	assert.Equal(t, Development, ParseEnvironment(""))
}

func TestProductionLoggerWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Production, "api", &buf)

	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Str("origin", "o1").Msg("hello")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "o1", entry["origin"])
	assert.Equal(t, "hello", entry["message"])
}

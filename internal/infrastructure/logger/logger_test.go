package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Debug("Debug message", map[string]interface{}{
		"key1": "value1",
	})

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "debug", logEntry["level"])
	assert.Equal(t, "Debug message", logEntry["message"])
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Contains(t, logEntry, "file")

	t.Run("Levels are respected", func(t *testing.T) {
		buf.Reset()
		warnLogger := NewJSONLogger(&buf, WarnLevel)

		warnLogger.Debug("Should not appear", nil)
		warnLogger.Info("Should not appear either", nil)
		assert.Equal(t, "", buf.String())

		warnLogger.Warn("Warning message", nil)
		assert.Contains(t, buf.String(), "Warning message")
	})

	t.Run("WithField", func(t *testing.T) {
		buf.Reset()
		logger.WithField("context", "test").Info("With field", nil)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test", entry["context"])
		assert.Equal(t, "With field", entry["message"])
	})

	t.Run("WithFields", func(t *testing.T) {
		buf.Reset()
		logger.WithFields(map[string]interface{}{
			"app":     "finance",
			"version": "1.0.0",
		}).Info("With fields", nil)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "finance", entry["app"])
		assert.Equal(t, "1.0.0", entry["version"])
	})

	t.Run("Text format", func(t *testing.T) {
		buf.Reset()
		New(&buf, InfoLevel, "text").Info("plain", map[string]interface{}{"k": "v"})
		assert.Contains(t, buf.String(), "plain")
		assert.Contains(t, buf.String(), "k=v")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestSetDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	GetDefaultLogger().Info("through default", nil)
	assert.Contains(t, buf.String(), "through default")

	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return &Logger{zlog: zerolog.New(buf).With().Timestamp().Logger()}
}

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		env       string
		wantDebug bool
		wantInfo  bool
		wantJSON  bool
	}{
		{env: EnvDevelopment, wantDebug: true, wantInfo: true, wantJSON: false},
		{env: "production", wantDebug: false, wantInfo: true, wantJSON: true},
		{env: EnvTest, wantDebug: false, wantInfo: false, wantJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.env, &buf)
			require.NotNil(t, log.GetZerolog())

			log.Debug("debug message", nil)
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug message"))

			buf.Reset()
			log.Info("info message", nil)
			assert.Equal(t, tt.wantInfo, strings.Contains(buf.String(), "info message"))

			buf.Reset()
			log.Warn("warn message", map[string]interface{}{"k": "v"})
			var entry map[string]interface{}
			isJSON := json.Unmarshal(buf.Bytes(), &entry) == nil
			assert.Equal(t, tt.wantJSON, isJSON)
			assert.Contains(t, buf.String(), "warn message")
		})
	}
}

func TestNop(t *testing.T) {
	log := Nop()

	// Should not panic or write anywhere
	log.Info("ignored", map[string]interface{}{"key": "value"})
	log.Error("ignored", errors.New("boom"), nil)
	log.With(map[string]interface{}{"a": 1}).WithRequestID("r").Debug("ignored", nil)
}

func TestFieldsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Info("search completed", map[string]interface{}{
		"query": "villa",
		"total": 3,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search completed", entry["message"])
	assert.Equal(t, "villa", entry["query"])
	assert.Equal(t, float64(3), entry["total"])
	assert.Equal(t, "info", entry["level"])
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.Error("catalog load failed", errors.New("connection refused"), map[string]interface{}{
		"source": "postgres",
	})

	output := buf.String()
	assert.Contains(t, output, "catalog load failed")
	assert.Contains(t, output, "connection refused")
	assert.Contains(t, output, "postgres")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	child := log.With(map[string]interface{}{
		"component": "search",
	})
	child.Info("test message", nil)

	assert.Contains(t, buf.String(), `"component":"search"`)
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithRequestID("req-12345").Info("request received", nil)

	assert.Contains(t, buf.String(), `"request_id":"req-12345"`)
}

func TestNilFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	// Should not panic with nil fields
	log.Info("message with nil fields", nil)

	assert.Contains(t, buf.String(), "message with nil fields")
}

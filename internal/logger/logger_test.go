package logger

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Info("Processed email:", "abc")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "Processed email: abc", line["message"])
	assert.Contains(t, line, "time")
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).WithLevel("warn")

	l.Debug("hidden")
	l.Infof("hidden %d", 1)
	assert.Zero(t, buf.Len())

	l.Errorf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf).With("email_id", "e-1")

	l.Warn("slow provider")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "e-1", line["email_id"])
	assert.Equal(t, "warn", line["level"])
}

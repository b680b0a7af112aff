package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug")
	require.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("field", "email").Debug("validated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validated", entry["msg"])
	assert.Equal(t, "email", entry["field"])
	assert.Equal(t, "debug", entry["level"])
}

func TestLevels(t *testing.T) {
	tests := []struct {
		raw  string
		want logrus.Level
	}{
		{raw: "", want: logrus.InfoLevel},
		{raw: "WARN", want: logrus.WarnLevel},
		{raw: " error ", want: logrus.ErrorLevel},
		{raw: "loud", want: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.want, New(&buf, tt.raw).GetLevel())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "trace")
	var buf bytes.Buffer
	assert.Equal(t, logrus.TraceLevel, FromEnv(&buf).GetLevel())
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseLevel(c.in), "ParseLevel(%q)", c.in)
	}
}

func TestNewHonoursEnvLevel(t *testing.T) {
	t.Setenv(levelEnv, "WARN")
	var buf bytes.Buffer
	log := New(&buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept", "took", 1500*time.Nanosecond+3*time.Millisecond)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "3.002ms", rec["took"])
}

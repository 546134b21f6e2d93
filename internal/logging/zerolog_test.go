package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_ProductionWritesJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(&buf, false)
	ctx := context.Background()

	log.Debug(ctx, "hidden")
	log.Info(ctx, "profile loaded", "user_id", "u-1")
	log.Error(ctx, "save failed", "err", errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "profile loaded", lines[0]["message"])
	assert.Equal(t, "u-1", lines[0]["user_id"])
	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["err"])
}

func TestZerologLogger_WithKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(&buf, false).With("component", "session")

	log.Warn(context.Background(), "stale response dropped", "generation", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "session", lines[0]["component"])
	assert.EqualValues(t, 3, lines[0]["generation"])
}

func TestPairs_OddArgs(t *testing.T) {
	m := pairs([]any{"a", 1, "dangling"})
	assert.Equal(t, 1, m["a"])
	assert.Equal(t, "dangling", m["!BADKEY"])
}

func TestNew_PicksImplementation(t *testing.T) {
	var buf bytes.Buffer

	_, ok := New(FormatConsole, true, &buf).(*ZerologLogger)
	assert.True(t, ok)

	_, ok = New(FormatJSON, false, &buf).(*SlogLogger)
	assert.True(t, ok)

	_, ok = New("", false, &buf).(*SlogLogger)
	assert.True(t, ok)
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(FormatJSON, false, &buf).Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0]["msg"])
	assert.Equal(t, "v", lines[0]["k"])
}

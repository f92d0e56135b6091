package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogging(t *testing.T) {
	require := require.New(t)

	early := GetLogger("early")

	var buf bytes.Buffer
	err := Initialize(&buf, FmtJSON, LevelInfo, map[string]Level{
		"nn":       LevelDebug,
		"nn/quiet": LevelError,
	})
	require.NoError(err, "Initialize")
	require.ErrorIs(Initialize(&buf, FmtJSON, LevelInfo, nil), ErrAlreadyInitialized)

	early.Info("early message", "answer", 42)
	early.Debug("filtered by default level")
	GetLogger("nn").Debug("module debug")
	GetLogger("nn/quiet").Warn("filtered by module level")
	GetLogger("other").With("extra", "x").Warn("with message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(lines, 3, "expected exactly three entries")

	var entries []map[string]any
	for _, line := range lines {
		var m map[string]any
		require.NoError(json.Unmarshal([]byte(line), &m), "Unmarshal")
		entries = append(entries, m)
	}

	require.Equal("early message", entries[0]["msg"])
	require.Equal("early", entries[0]["module"])
	require.EqualValues(42, entries[0]["answer"])
	require.Equal("info", entries[0]["level"])

	require.Equal("module debug", entries[1]["msg"])
	require.Equal("debug", entries[1]["level"])

	require.Equal("with message", entries[2]["msg"])
	require.Equal("x", entries[2]["extra"])
	require.Equal("other", entries[2]["module"])
}

func TestLevelAndFormatFlags(t *testing.T) {
	require := require.New(t)

	var lvl Level
	require.NoError(lvl.Set("warn"))
	require.Equal(LevelWarn, lvl)
	require.Equal("WARN", lvl.String())
	require.Error(lvl.Set("verbose"))

	var f Format
	require.NoError(f.Set("json"))
	require.Equal(FmtJSON, f)
	require.Equal("JSON", f.String())
	require.Error(f.Set("xml"))
}

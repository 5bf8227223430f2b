package root

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "phs.log")

	w, err := newLogFileWriter(path, 100)
	require.NoError(t, err)

	_, err = w.Write(bytes.Repeat([]byte("a"), 80))
	require.NoError(t, err)
	_, err = w.Write(bytes.Repeat([]byte("b"), 40))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 50)
	require.Equal(t, append(bytes.Repeat([]byte("a"), 10), bytes.Repeat([]byte("b"), 40)...), data)
}

func TestLogFileWriter_TruncatesOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phs.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 300), 0o644))

	w, err := newLogFileWriter(path, 100)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, 50, info.Size())
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "WARN", parseLogLevel("warn").String())
	require.Equal(t, "INFO", parseLogLevel("nonsense").String())
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_Trims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "worklog.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	chunk := bytes.Repeat([]byte("x"), 1024*1024)
	for range 6 {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	_, err = w.Write([]byte("last line\n"))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(keepLogSizeBytes), info.Size())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasSuffix(data, []byte("last line\n")))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("bogus").String())
	require.Equal(t, "ERROR", parseLogLevel("error").String())
}

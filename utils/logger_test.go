package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_UnwritableFileFallsBackToConsole(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing-dir", "motion.log")

	l := newLogger(INFO, path, &console)
	defer l.Close()
	assert.Nil(t, l.file)
	assert.Contains(t, console.String(), "could not open log file")

	l.Info("chunk %03d saved", 7)
	assert.Contains(t, console.String(), "chunk 007 saved")
}

func TestNewLogger_WritesFileAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion.log")

	l := newLogger(WARN, path, nil)
	l.Info("not written")
	l.Warn("disk %s", "low")
	l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "disk low")
	assert.NotContains(t, string(data), "not written")
}

func TestNewLogger_NoWriters(t *testing.T) {
	l := newLogger(DEBUG, "", nil)
	l.Error("dropped")
	l.Close()
}

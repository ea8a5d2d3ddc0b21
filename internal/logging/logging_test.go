package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStderrOnly(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("smoke test")
}

func TestNewWithRotatingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skyd.log")

	log, err := New(Config{FilePath: path, Debug: true})
	require.NoError(t, err)
	log.Debug("smoke test")
	require.NoError(t, log.Sync())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

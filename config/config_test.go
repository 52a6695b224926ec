package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_InteractiveSelectionDisabled(t *testing.T) {
	assert.False(t, Default().Interactive, "region selection must be opt-in")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Interactive)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	contents := `[source]
kind = mjpeg
stream_url = http://cam.local/stream

[server]
listen = 0.0.0.0:13000
cors = true
interactive = true

[snapshot]
format = jpeg
quality = 75
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mjpeg", cfg.SourceKind)
	assert.Equal(t, "http://cam.local/stream", cfg.StreamURL)
	assert.Equal(t, "0.0.0.0:13000", cfg.ListenAddr)
	assert.True(t, cfg.EnableCORS)
	assert.True(t, cfg.Interactive)
	assert.Equal(t, "jpeg", cfg.Format)
	assert.Equal(t, 75, cfg.Quality)
}

func TestLoad_PartialFileKeepsRemainingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[source]\nkind = static\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "static", cfg.SourceKind)
	assert.Equal(t, "localhost:12000", cfg.ListenAddr)
	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 90, cfg.Quality)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[unterminated\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config holds the file-backed defaults for camcli. Command-line flags
// override anything loaded from here.
type Config struct {
	// [source]
	SourceKind string
	StreamURL  string

	// [server]
	ListenAddr  string
	EnableCORS  bool
	Interactive bool

	// [snapshot]
	Format  string
	Quality int
}

// Default returns the built-in configuration used when no file exists.
func Default() Config {
	return Config{
		SourceKind: "screen",
		ListenAddr: "localhost:12000",
		Format:     "png",
		Quality:    90,
	}
}

// DefaultPath returns ~/.camcli/config.ini.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".camcli", "config.ini"), nil
}

// Load reads the config file at path, falling back to defaults for missing
// keys. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	source := file.Section("source")
	cfg.SourceKind = source.Key("kind").MustString(cfg.SourceKind)
	cfg.StreamURL = source.Key("stream_url").MustString(cfg.StreamURL)

	server := file.Section("server")
	cfg.ListenAddr = server.Key("listen").MustString(cfg.ListenAddr)
	cfg.EnableCORS = server.Key("cors").MustBool(cfg.EnableCORS)
	cfg.Interactive = server.Key("interactive").MustBool(cfg.Interactive)

	snapshot := file.Section("snapshot")
	cfg.Format = snapshot.Key("format").MustString(cfg.Format)
	cfg.Quality = snapshot.Key("quality").MustInt(cfg.Quality)

	return cfg, nil
}

// LoadDefault reads the config file from its default location.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		// no home directory; run on built-in defaults
		return Default(), nil
	}
	return Load(path)
}

// Package config loads swiftline settings from an optional YAML file
// with environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultMaxFileSize bounds the documents the tools will parse.
const DefaultMaxFileSize = 4 << 20

// Config holds settings shared by the server and the CLI tools.
type Config struct {
	// IndexPath locates the SQLite outline database used by the
	// index/show commands.
	IndexPath string `yaml:"index_path"`
	// MaxFileSize is the largest file, in bytes, the tools will parse.
	MaxFileSize int64 `yaml:"max_file_size"`
	// LogFile redirects server logging away from stderr when set.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IndexPath:   filepath.Join(".swiftline", "outline.db"),
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Load reads the config at path, falling back to defaults when the file
// does not exist. Environment variables SWIFTLINE_INDEX, SWIFTLINE_LOG,
// and SWIFTLINE_MAX_FILE_SIZE override file values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if v := os.Getenv("SWIFTLINE_INDEX"); v != "" {
		cfg.IndexPath = v
	}
	if v := os.Getenv("SWIFTLINE_LOG"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SWIFTLINE_MAX_FILE_SIZE"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("SWIFTLINE_MAX_FILE_SIZE: %w", err)
		}
		cfg.MaxFileSize = size
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	return cfg, nil
}

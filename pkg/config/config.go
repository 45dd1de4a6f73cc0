// Package config loads xgit settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config stores user-level settings. Every field has a usable zero-ish
// default, so a missing config file is not an error.
type Config struct {
	// DefaultRefCandidates are tried in order when no ref name is given.
	DefaultRefCandidates []string `toml:"default_ref_candidates"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// AllowedSigners is the path to an ssh allowed-signers file used by
	// signature verification. Empty disables the principal check.
	AllowedSigners string `toml:"allowed_signers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultRefCandidates: []string{
			"refs/heads/main",
			"refs/heads/master",
			"HEAD",
			"refs/remotes/origin/HEAD",
		},
		LogLevel: "info",
	}
}

// Path returns the config file location: $XGIT_CONFIG if set, otherwise
// ~/.config/xgit/config.toml.
func Path() (string, error) {
	if p := os.Getenv("XGIT_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config path: %w", err)
	}
	return filepath.Join(home, ".config", "xgit", "config.toml"), nil
}

// Load reads the config file at path. A missing file returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(cfg.DefaultRefCandidates) == 0 {
		cfg.DefaultRefCandidates = Default().DefaultRefCandidates
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = Default().LogLevel
	}
	return cfg, nil
}

// LoadDefault loads from the standard location (see Path).
func LoadDefault() (*Config, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(p)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/snapnote/internal/theme"
)

// ThemeEnv names the environment variable that selects a theme.
const ThemeEnv = "SNAPNOTE_THEME"

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".snapnoterc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	if p := l.UserConfigPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// UserConfigPath is where `config save` writes.
func (l *Loader) UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "snapnote", "config.rc")
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveTheme picks the theme named by flag, then SNAPNOTE_THEME, then the
// config file. Themes defined inline in the config win over the loader.
func ResolveTheme(cfg *Config, flagValue string, loader *theme.Loader) (*theme.Theme, error) {
	name := strings.TrimSpace(flagValue)
	if name == "" {
		name = strings.TrimSpace(os.Getenv(ThemeEnv))
	}
	if name == "" {
		name = cfg.Theme
	}
	if name == "" {
		return theme.Default(), nil
	}
	if t, ok := cfg.Themes[name]; ok {
		return t, nil
	}
	if loader == nil {
		loader = theme.NewLoader()
	}
	return loader.Load(name)
}

// Package config owns the launchdeck configuration file: where the backend
// lives, how the UI looks, where exports land, and what gets logged. The
// file is YAML under the launchdeck dot-directory; a missing file means
// defaults, and environment variables override whatever the file says.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// Config holds all launchdeck configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"` // optional bearer token, sent verbatim
	Timeout string `yaml:"timeout"`
}

// UIConfig configures the terminal presentation.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, light, dark
}

// ExportConfig configures where downloaded workbooks are written.
type ExportConfig struct {
	Dir string `yaml:"dir"` // empty means <home>/exports
}

// LoggingConfig configures category file logging. The same section is read
// by internal/logging straight from the file, so the field names here and
// there must stay in sync.
type LoggingConfig struct {
	Enabled    bool            `yaml:"enabled"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: "30s",
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// HomeDir resolves the launchdeck dot-directory. A project-local
// ./.launchdeck wins when it exists, so a checked-out workspace can carry
// its own backend address; otherwise the user-level ~/.launchdeck is used.
func HomeDir() string {
	if info, err := os.Stat(".launchdeck"); err == nil && info.IsDir() {
		return ".launchdeck"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".launchdeck"
	}
	return filepath.Join(home, ".launchdeck")
}

// DefaultConfigPath returns the config file location inside HomeDir.
func DefaultConfigPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// Load reads configuration from a YAML file. A missing file is not an
// error: defaults come back, with environment overrides applied on top
// either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration atomically, so a crash mid-save never
// leaves a half-written file for the watcher to choke on.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("LAUNCHDECK_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if token := os.Getenv("LAUNCHDECK_API_TOKEN"); token != "" {
		c.API.Token = token
	}
	if timeout := os.Getenv("LAUNCHDECK_API_TIMEOUT"); timeout != "" {
		c.API.Timeout = timeout
	}
	if theme := os.Getenv("LAUNCHDECK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if dir := os.Getenv("LAUNCHDECK_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
	if level := os.Getenv("LAUNCHDECK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	switch os.Getenv("LAUNCHDECK_LOG_ENABLED") {
	case "1", "true":
		c.Logging.Enabled = true
	case "0", "false":
		c.Logging.Enabled = false
	}
}

// GetAPITimeout returns the API timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ExportDir returns the directory workbook exports are written to.
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return filepath.Join(HomeDir(), "exports")
}

// Validate checks the configuration for values the client cannot work with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout != "" {
		if _, err := time.ParseDuration(c.API.Timeout); err != nil {
			return fmt.Errorf("api.timeout %q is not a duration: %w", c.API.Timeout, err)
		}
	}
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("ui.theme %q is not one of auto, light, dark", c.UI.Theme)
	}
	return nil
}

// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/types"
)

// Defaults used when neither the config file nor the environment sets a value.
const (
	DefaultPort         = 8080
	DefaultStore        = "file"
	DefaultStatePath    = "resume_state.json"
	DefaultPreviewDelay = 300 * time.Millisecond
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, the environment or CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty" validate:"gte=0,lte=65535"` // HTTP listen port

	// Persistence
	Store       string `json:"store,omitempty" validate:"omitempty,oneof=file postgres memory"` // Repository kind
	StatePath   string `json:"state_path,omitempty"`                                             // State file for the file store
	DatabaseURL string `json:"database_url,omitempty" validate:"required_if=Store postgres"`     // PostgreSQL connection URL

	// Rendering
	Template   string               `json:"template,omitempty"`    // Path to a LaTeX template
	Settings   *types.SettingsPatch `json:"settings,omitempty"`    // Overrides of the default render settings
	UseBrowser bool                 `json:"use_browser,omitempty"` // Export PDF through headless Chrome by default
	ChromePath string               `json:"chrome_path,omitempty"` // Chrome binary for the browser engine

	// Behavior
	PreviewDelay string `json:"preview_delay,omitempty"` // Preview debounce window, e.g. "300ms"
	Verbose      bool   `json:"verbose,omitempty"`       // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.PreviewDelay != "" {
		d, err := time.ParseDuration(c.PreviewDelay)
		if err != nil {
			return fmt.Errorf("config error: invalid 'preview_delay': %w", err)
		}
		if d < 0 {
			return fmt.Errorf("config error: 'preview_delay' must be non-negative")
		}
	}

	if c.Settings != nil {
		s := c.RenderSettings()
		if err := s.Validate(); err != nil {
			return fmt.Errorf("config error: 'settings': %w", err)
		}
	}

	// Validate file paths exist (if specified)
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.StatePath == "" {
		result.StatePath = defaults.StatePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.PreviewDelay == "" {
		result.PreviewDelay = defaults.PreviewDelay
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	if result.Settings == nil {
		result.Settings = defaults.Settings
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("RESUME_STORE"); v != "" {
		c.Store = v
	}
	if v := getenv("RESUME_STATE_PATH"); v != "" {
		c.StatePath = v
	}
	if v := getenv("PREVIEW_DELAY"); v != "" {
		c.PreviewDelay = v
	}
	if v := getenv("CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:         DefaultPort,
		Store:        DefaultStore,
		StatePath:    DefaultStatePath,
		PreviewDelay: DefaultPreviewDelay.String(),
	}
}

// RenderSettings returns the default settings with the configured overrides applied.
func (c *Config) RenderSettings() types.Settings {
	s := types.DefaultSettings()
	if c.Settings != nil {
		s = c.Settings.Apply(s)
	}
	return s
}

// PreviewDelayDuration returns the parsed preview delay, or the default when unset or invalid.
func (c *Config) PreviewDelayDuration() time.Duration {
	if c.PreviewDelay == "" {
		return DefaultPreviewDelay
	}
	d, err := time.ParseDuration(c.PreviewDelay)
	if err != nil || d < 0 {
		return DefaultPreviewDelay
	}
	return d
}

// Package config handles configuration loading and validation for wishlist.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/wishlist/internal/core/paginate"
	"github.com/hay-kot/wishlist/internal/extract"
	"github.com/hay-kot/wishlist/internal/store/local"
)

// DefaultBaseURL is the hosted wishlist service.
const DefaultBaseURL = "https://ranfysvalle02--wishlist-api-fastapi-app.modal.run"

// Config holds the application configuration.
type Config struct {
	Service  ServiceConfig `yaml:"service"`
	Local    LocalConfig   `yaml:"local"`
	PageSize int           `yaml:"page_size"`
	Extract  ExtractConfig `yaml:"extract"`
	DataDir  string        `yaml:"-"` // set by caller, not from config file
}

// ServiceConfig configures the remote wishlist service.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LocalConfig configures the device-only wishlist.
type LocalConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Name    string `yaml:"name"`
}

// ExtractConfig configures page extraction.
type ExtractConfig struct {
	// Browser renders pages in headless Chromium instead of fetching HTML.
	Browser      bool           `yaml:"browser"`
	Headless     *bool          `yaml:"headless"`
	MinImageSize int            `yaml:"min_image_size"`
	UserAgent    string         `yaml:"user_agent"`
	Sites        []extract.Site `yaml:"sites"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	enabled, headless := true, true
	return Config{
		Service: ServiceConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Local: LocalConfig{
			Enabled: &enabled,
			Name:    local.DefaultName,
		},
		PageSize: paginate.DefaultPageSize,
		Extract: ExtractConfig{
			Headless:     &headless,
			MinImageSize: extract.DefaultMinImageSize,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaults.Service.BaseURL
	}
	if c.Service.Timeout == 0 {
		c.Service.Timeout = defaults.Service.Timeout
	}
	if c.Local.Enabled == nil {
		c.Local.Enabled = defaults.Local.Enabled
	}
	if c.Local.Name == "" {
		c.Local.Name = defaults.Local.Name
	}
	if c.PageSize == 0 {
		c.PageSize = defaults.PageSize
	}
	if c.Extract.Headless == nil {
		c.Extract.Headless = defaults.Extract.Headless
	}
	if c.Extract.MinImageSize == 0 {
		c.Extract.MinImageSize = defaults.Extract.MinImageSize
	}
}

// Validate checks that the configuration is usable. ValidateDeep reports
// every problem instead of the first.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("service.timeout cannot be negative")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1")
	}
	return nil
}

// LocalEnabled reports whether the device-only wishlist is shown.
func (c *Config) LocalEnabled() bool {
	return c.Local.Enabled == nil || *c.Local.Enabled
}

// Headless reports whether the extraction browser runs without a window.
func (c *Config) Headless() bool {
	return c.Extract.Headless == nil || *c.Extract.Headless
}

// Cascade builds the extraction cascade. Configured sites are tried before
// the built-in ones, in file order.
func (c *Config) Cascade() *extract.Cascade {
	cascade := extract.DefaultCascade()
	cascade.Sites = append(append([]extract.Site{}, c.Extract.Sites...), cascade.Sites...)
	cascade.MinImageSize = c.Extract.MinImageSize
	return cascade
}

// StorageFile returns the path to the key-value storage file holding tokens,
// the local wishlist and the current selection.
func (c *Config) StorageFile() string {
	return filepath.Join(c.DataDir, "storage.json")
}

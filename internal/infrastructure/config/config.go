// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for medsearch configuration.
	DefaultConfigDir = ".medsearch"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "medsearch.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	LLM    LLMConfig    `yaml:"llm,omitempty"`
	SQLite SQLiteConfig `yaml:"sqlite,omitempty"`
	Search SearchConfig `yaml:"search,omitempty"`
}

// LLMConfig holds configuration for the generative search provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	// BaseURL points at an OpenAI-compatible endpoint; empty means the
	// default OpenAI API.
	BaseURL string `yaml:"base_url,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite backing store.
type SQLiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

// SearchConfig holds tunables for the search engine.
type SearchConfig struct {
	// FreshnessSeconds is how long a cache snapshot is served before a
	// reload is forced.
	FreshnessSeconds int `yaml:"freshness_seconds,omitempty"`
	// Fuzziness is the maximum edit distance for fuzzy index matches.
	Fuzziness int `yaml:"fuzziness,omitempty"`
	// AutocompleteLimit caps autocomplete results when the caller passes
	// no limit.
	AutocompleteLimit int `yaml:"autocomplete_limit,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Search: SearchConfig{
			FreshnessSeconds:  120,
			Fuzziness:         1,
			AutocompleteLimit: 10,
		},
	}
}

// Load loads configuration from the .medsearch directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'medsearch init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
}

// FreshnessWindow returns the snapshot freshness window as a duration.
func (c *Config) FreshnessWindow() time.Duration {
	if c.Search.FreshnessSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.Search.FreshnessSeconds) * time.Second
}

// ConfigDir returns the path to the .medsearch config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the SQLite database path, honoring a configured
// override.
func (c *Config) SQLitePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

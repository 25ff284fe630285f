// Package config loads deck builder settings from an optional TOML file,
// layered under command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// HTTP client configuration
	HTTP HTTPConfig `toml:"http"`

	// Deck build configuration
	Build BuildConfig `toml:"build"`

	// Output configuration
	Output OutputConfig `toml:"output"`
}

// HTTPConfig contains external lookup settings.
type HTTPConfig struct {
	Workers       int    `toml:"workers"`         // Concurrent lookup workers
	ScryfallURL   string `toml:"scryfall_url"`    // Card database endpoint override
	EdhrecJSONURL string `toml:"edhrec_json_url"` // Structured feed endpoint override
	EdhrecHTMLURL string `toml:"edhrec_html_url"` // Rendered feed endpoint override
}

// BuildConfig contains deck assembly settings.
type BuildConfig struct {
	CurveTarget   float64  `toml:"curve_target"`   // Target mana curve, 1.0-7.0
	MaxPrice      float64  `toml:"max_price"`      // Suggestion price ceiling (0 = unfiltered)
	Currency      string   `toml:"currency"`       // Preferred price currency
	SuggestionCap int      `toml:"suggestion_cap"` // Max missing names resolved
	Staples       []string `toml:"staples"`        // Override the built-in staples list
}

// OutputConfig contains export settings.
type OutputConfig struct {
	Format    string `toml:"format"`     // "csv" or "json"
	SortAfter string `toml:"sort_after"` // "none", "type", or "function"
	Chart     bool   `toml:"chart"`      // Render a mana-curve chart
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Workers: 4,
		},
		Build: BuildConfig{
			CurveTarget:   3.0,
			MaxPrice:      5.0,
			Currency:      "eur",
			SuggestionCap: 150,
		},
		Output: OutputConfig{
			Format:    "csv",
			SortAfter: "none",
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".edh-deckbuilder", "config.toml"), nil
}

// Load loads the configuration from path. A missing file yields the default
// configuration; a malformed file is an error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Build.CurveTarget < 0 {
		return fmt.Errorf("curve target cannot be negative: %v", c.Build.CurveTarget)
	}
	if c.Build.MaxPrice < 0 {
		return fmt.Errorf("max price cannot be negative: %v", c.Build.MaxPrice)
	}
	if c.Build.SuggestionCap < 0 {
		return fmt.Errorf("suggestion cap cannot be negative: %d", c.Build.SuggestionCap)
	}
	if c.HTTP.Workers < 0 {
		return fmt.Errorf("workers cannot be negative: %d", c.HTTP.Workers)
	}
	switch c.Output.Format {
	case "", "csv", "json":
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	switch c.Output.SortAfter {
	case "", "none", "type", "function":
	default:
		return fmt.Errorf("unsupported sort order %q", c.Output.SortAfter)
	}
	return nil
}

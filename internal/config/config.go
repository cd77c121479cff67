// Package config holds the runnable default configuration for vizmerge: the
// input documents, their display titles, the output path, and the dashboard
// chrome. The composer itself carries no embedded defaults; everything
// enumerable lives here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full vizmerge configuration.
type Config struct {
	// Inputs are the chart HTML files to merge, in display order.
	Inputs []string `yaml:"inputs"`

	// Titles are applied positionally to the inputs. Short lists are
	// padded with sequential fallback names, excess entries are ignored.
	Titles []string `yaml:"titles"`

	// Output is the path of the merged dashboard.
	Output string `yaml:"output"`

	// Page configures the static chrome of the generated document.
	Page PageConfig `yaml:"page"`

	// Logging configures diagnostic logging.
	Logging LoggingConfig `yaml:"logging"`
}

// PageConfig configures the static page chrome.
type PageConfig struct {
	Title    string `yaml:"title"`    // <title> element
	Heading  string `yaml:"heading"`  // page h1
	Subtitle string `yaml:"subtitle"` // line under the heading
	Footer   string `yaml:"footer"`   // footer text
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the built-in run configuration: the Michigan
// political finance chart set merged into index.html.
func DefaultConfig() *Config {
	return &Config{
		Inputs: []string{
			"michigan_choropleth.html",
			"michigan_choropleth2.html",
			"expenditure_contribution_dashboard.html",
		},
		Titles: []string{
			"🗺️ Michigan Counties - Log Average Amount by County(Expenditure)",
			"📊 Michigan Counties - Log Average Amount by County(Contribution)",
			"📈 Trend Analysis Over Time",
		},
		Output: "index.html",

		Page: PageConfig{
			Title:    "Michigan Political Finance Dashboard",
			Heading:  "Michigan Political Finance Analysis Dashboard",
			Subtitle: "Comprehensive visualization of political finance data",
			Footer:   "Generated with Vega-Lite | Data visualization dashboard",
		},

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, starting from the defaults.
// A missing file is not an error; the defaults are returned unchanged.
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

// Save writes the configuration to a YAML file, creating parent directories
// as needed.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if out := os.Getenv("VIZMERGE_OUTPUT"); out != "" {
		c.Output = out
	}
	if level := os.Getenv("VIZMERGE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "vizmerge.yaml"
	}
	return filepath.Join(cwd, "vizmerge.yaml")
}

// Validate checks the configuration for values the composer cannot work
// with. An empty input list is valid (it produces an empty dashboard).
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path not configured")
	}
	for i, in := range c.Inputs {
		if in == "" {
			return fmt.Errorf("input %d is empty", i+1)
		}
	}
	return nil
}

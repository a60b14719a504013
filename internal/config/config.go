// Package config loads the mdlayout configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/mdlayout/internal/layout"
)

// Config represents the application configuration.
type Config struct {
	// ContentRoots are the directories scanned for markdown files.
	ContentRoots []string     `yaml:"content_roots"`
	Layout       LayoutConfig `yaml:"layout"`

	// Workers bounds how many documents are processed concurrently.
	Workers int `yaml:"workers"`
}

// LayoutConfig configures the frontmatter transform.
type LayoutConfig struct {
	Default string `yaml:"default,omitempty"`

	// SkipIfHasLayout uses a pointer so an absent key defaults to true.
	SkipIfHasLayout *bool `yaml:"skip_if_has_layout,omitempty"`
}

// Load loads configuration from the specified file.
//
// A missing file is not an error: defaults apply, so the tool runs without
// any configuration. Environment variables referenced in the YAML content are
// expanded; .env/.env.local files are loaded first without overriding the
// process environment.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	config := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	config.applyDefaults()
	return config, nil
}

// LayoutOptions converts the file-level layout settings into per-call options.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if c.Layout.Default != "" {
		opts.DefaultLayout = c.Layout.Default
	}
	if c.Layout.SkipIfHasLayout != nil {
		opts.SkipIfHasLayout = *c.Layout.SkipIfHasLayout
	}
	return opts
}

func (c *Config) applyDefaults() {
	if len(c.ContentRoots) == 0 {
		c.ContentRoots = []string{"content"}
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
}

// loadEnvFiles loads .env/.env.local if present. godotenv never overrides
// variables already set in the process environment.
func loadEnvFiles() {
	for _, path := range []string{".env", ".env.local"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s couldn't be loaded: %v\n", path, err)
		}
	}
}

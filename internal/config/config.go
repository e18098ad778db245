// Package config loads and validates the site configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the site-wide configuration read from foliopress.yaml.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Preview PreviewConfig `yaml:"preview,omitempty"`
}

// SiteConfig carries site identity and the base prefix every emitted local
// URL is rooted under.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url"`
}

// ContentConfig locates the content trees and per-collection defaults.
type ContentConfig struct {
	Dir        string           `yaml:"dir"`
	DevlogsDir string           `yaml:"devlogs_dir"`
	OutputDir  string           `yaml:"output_dir"`
	Blogs      CollectionConfig `yaml:"blogs"`
	Projects   CollectionConfig `yaml:"projects"`
}

// CollectionConfig holds per-collection asset defaults. The raw values are
// as-authored; resolution against the base prefix happens downstream.
type CollectionConfig struct {
	DefaultCover            string `yaml:"default_cover"`
	DefaultHeaderBackground string `yaml:"default_header_background,omitempty"`
}

// PreviewConfig tunes the local preview server.
type PreviewConfig struct {
	Port            int    `yaml:"port,omitempty"`
	RebuildInterval string `yaml:"rebuild_interval,omitempty"` // Go duration, "" disables scheduled rebuilds
}

// Load reads, defaults, env-overrides and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "My Portfolio"
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "/"
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "public/content"
	}
	if c.Content.DevlogsDir == "" {
		c.Content.DevlogsDir = "public/devlogs"
	}
	if c.Content.OutputDir == "" {
		c.Content.OutputDir = "public/data"
	}
	if c.Content.Blogs.DefaultCover == "" {
		c.Content.Blogs.DefaultCover = "default_cover.jpg"
	}
	if c.Content.Blogs.DefaultHeaderBackground == "" {
		c.Content.Blogs.DefaultHeaderBackground = "background/default_blog.png"
	}
	if c.Content.Projects.DefaultCover == "" {
		c.Content.Projects.DefaultCover = "default_cover.jpg"
	}
	if c.Content.Projects.DefaultHeaderBackground == "" {
		c.Content.Projects.DefaultHeaderBackground = "background/default_proj.jpg"
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = 1316
	}
}

// applyEnv lets deployment environments override the base prefix without
// editing the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("FOLIOPRESS_BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
}

// Validate rejects configurations the pipeline cannot work with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Site.BaseURL, "/") {
		return fmt.Errorf("site.base_url must start with '/', got %q", c.Site.BaseURL)
	}
	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir must not be empty")
	}
	if c.Content.OutputDir == "" {
		return fmt.Errorf("content.output_dir must not be empty")
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("preview.port out of range: %d", c.Preview.Port)
	}
	return nil
}

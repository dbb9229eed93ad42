// Package config loads tagmatch configuration from a YAML file with
// TM_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/tagmatch/internal/decision"
	"github.com/sydlexius/tagmatch/internal/tags"
)

// Config holds all application configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Matching MatchingConfig `yaml:"matching"`
	Tagging  TaggingConfig  `yaml:"tagging"`
	Cache    CacheConfig    `yaml:"cache"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CatalogConfig holds catalog API settings.
type CatalogConfig struct {
	Token     string `yaml:"token"`
	UserAgent string `yaml:"user_agent"`
}

// MatchingConfig holds ranker and decision-engine settings.
type MatchingConfig struct {
	MinScore      int  `yaml:"min_score"`
	AutoThreshold int  `yaml:"auto_threshold"`
	MaxCandidates int  `yaml:"max_candidates"`
	FlipQuery     bool `yaml:"flip_query"`
}

// Thresholds converts the matching settings into decision thresholds.
func (m MatchingConfig) Thresholds() decision.Thresholds {
	return decision.Thresholds{MinScore: m.MinScore, AutoThreshold: m.AutoThreshold}
}

// TaggingConfig holds merge settings.
type TaggingConfig struct {
	Overwrite     bool `yaml:"overwrite"`
	TagFromSource bool `yaml:"tag_from_source"`
	EmbedCovers   bool `yaml:"embed_covers"`
	RenameFiles   bool `yaml:"rename_files"`
}

// Policy returns the overwrite policy the settings select.
func (t TaggingConfig) Policy() tags.Policy {
	if t.Overwrite {
		return tags.PolicyOverwriteAll
	}
	return tags.PolicyFillMissing
}

// CacheConfig holds confirmed-match store settings.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			UserAgent: "tagmatch/1.0",
		},
		Matching: MatchingConfig{
			MinScore:      50,
			AutoThreshold: 75,
			MaxCandidates: 15,
			FlipQuery:     true,
		},
		Tagging: TaggingConfig{
			EmbedCovers: true,
		},
		Cache: CacheConfig{
			Path: "saved_searches.txt",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("TM_CATALOG_TOKEN"); v != "" {
		c.Catalog.Token = v
	}
	if v := os.Getenv("TM_USER_AGENT"); v != "" {
		c.Catalog.UserAgent = v
	}
	if v := os.Getenv("TM_MIN_SCORE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Matching.MinScore = n
		}
	}
	if v := os.Getenv("TM_AUTO_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Matching.AutoThreshold = n
		}
	}
	if v := os.Getenv("TM_CACHE_PATH"); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv("TM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TM_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) validate() error {
	if err := c.Matching.Thresholds().Validate(); err != nil {
		return err
	}
	if c.Matching.MaxCandidates < 0 {
		return fmt.Errorf("invalid max candidates: %d", c.Matching.MaxCandidates)
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache path is required")
	}
	return nil
}

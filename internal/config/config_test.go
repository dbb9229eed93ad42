package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sydlexius/tagmatch/internal/tags"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Matching.MinScore != 50 || cfg.Matching.AutoThreshold != 75 {
		t.Errorf("thresholds = %d/%d", cfg.Matching.MinScore, cfg.Matching.AutoThreshold)
	}
	if !cfg.Matching.FlipQuery {
		t.Error("flip_query should default on")
	}
	if cfg.Cache.Path != "saved_searches.txt" {
		t.Errorf("cache path = %q", cfg.Cache.Path)
	}
	if cfg.Tagging.Policy() != tags.PolicyFillMissing {
		t.Errorf("default policy = %s", cfg.Tagging.Policy())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog:
  token: file-token
  user_agent: custom-agent/2.0
matching:
  min_score: 60
  auto_threshold: 80
tagging:
  overwrite: true
cache:
  path: /var/lib/tagmatch/matches.txt
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Token != "file-token" || cfg.Catalog.UserAgent != "custom-agent/2.0" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}
	if cfg.Matching.MinScore != 60 || cfg.Matching.AutoThreshold != 80 {
		t.Errorf("matching = %+v", cfg.Matching)
	}
	if cfg.Tagging.Policy() != tags.PolicyOverwriteAll {
		t.Errorf("policy = %s", cfg.Tagging.Policy())
	}
	if cfg.Cache.Path != "/var/lib/tagmatch/matches.txt" {
		t.Errorf("cache path = %q", cfg.Cache.Path)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Matching.MinScore != 50 {
		t.Errorf("min score = %d", cfg.Matching.MinScore)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("catalog:\n  token: file-token\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TM_CATALOG_TOKEN", "env-token")
	t.Setenv("TM_MIN_SCORE", "65")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.Token != "env-token" {
		t.Errorf("token = %q, want env override", cfg.Catalog.Token)
	}
	if cfg.Matching.MinScore != 65 {
		t.Errorf("min score = %d", cfg.Matching.MinScore)
	}
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "matching:\n  min_score: 90\n  auto_threshold: 40\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for auto threshold below min score")
	}
}

func TestLoadRejectsEmptyCachePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  path: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty cache path")
	}
}

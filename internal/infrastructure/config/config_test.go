package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Campaign.Start != "2025-03-01" || cfg.Campaign.End != "2025-03-29" || cfg.Store.Backend != BackendFile {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Campaign.Start = "2026-02-18"
	cfg.Campaign.End = "2026-03-19"
	cfg.Store.Backend = BackendSQLite
	cfg.Quran.PageDelay = 50 * time.Millisecond

	if err := Save(root, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, ".hilal", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "page_delay: 50ms") {
		t.Errorf("durations should be written as strings:\n%s", data)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Campaign.Start != "2026-02-18" || loaded.Store.Backend != BackendSQLite || loaded.Quran.PageDelay != 50*time.Millisecond {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	c, _ := loaded.CampaignWindow()
	if c.Length() != 30 {
		t.Errorf("expected 30 day campaign, got %d", c.Length())
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".hilal"), 0700); err != nil {
		t.Fatal(err)
	}
	body := "campaign:\n  start: \"2025-03-02\"\nlog:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(root, ".hilal", "config.yaml"), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Campaign.Start != "2025-03-02" || cfg.Campaign.End != "2025-03-29" || cfg.Log.Level != "debug" {
		t.Errorf("unexpected merge %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted window", func(c *Config) { c.Campaign.Start, c.Campaign.End = "2025-04-01", "2025-03-01" }},
		{"bad date", func(c *Config) { c.Campaign.Start = "March" }},
		{"bad backend", func(c *Config) { c.Store.Backend = "redis" }},
		{"negative delay", func(c *Config) { c.Quran.PageDelay = -time.Second }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

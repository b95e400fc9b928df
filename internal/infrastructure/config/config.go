// Package config reads and writes the workspace settings in .hilal/config.yaml.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/felixgeelhaar/hilal/pkg/quran"
	"github.com/felixgeelhaar/hilal/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	Campaign CampaignConfig `yaml:"campaign"`
	Store    StoreConfig    `yaml:"store"`
	Quran    QuranConfig    `yaml:"quran"`
	Log      LogConfig      `yaml:"log"`
}

type CampaignConfig struct {
	Name  string `yaml:"name"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

type QuranConfig struct {
	PageDelay    time.Duration `yaml:"page_delay"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Campaign: CampaignConfig{
			Name:  "Ramadan",
			Start: checklist.DefaultStart,
			End:   checklist.DefaultEnd,
		},
		Store: StoreConfig{Backend: BackendFile, Path: storage.DatabaseFile},
		Quran: QuranConfig{
			PageDelay:    quran.DefaultPageDelay,
			FetchTimeout: quran.DefaultFetchTimeout,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the campaign window and the backend name.
func (c *Config) Validate() error {
	if _, err := checklist.NewCampaign(c.Campaign.Start, c.Campaign.End); err != nil {
		return fmt.Errorf("campaign: %w", err)
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendFile, BackendSQLite, c.Store.Backend)
	}
	if c.Quran.PageDelay < 0 || c.Quran.FetchTimeout < 0 {
		return fmt.Errorf("quran delays cannot be negative")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// CampaignWindow builds the validated window.
func (c *Config) CampaignWindow() (checklist.Campaign, error) {
	return checklist.NewCampaign(c.Campaign.Start, c.Campaign.End)
}

// Load reads config.yaml under root, filling unset fields from Default.
// A missing file yields the defaults.
func Load(root string) (*Config, error) {
	repo := storage.NewFilesystemStore(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemStore(root)
	if err := repo.Initialize(); err != nil {
		return err
	}
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/config"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/spf13/viper"
)

// cliActor is recorded on audit events raised from the command line.
const cliActor = "cli"

func getProjectRoot() (string, error) {
	if projectPath := viper.GetString("workspace"); projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("workspace path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("workspace path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

// loadConfig reads the workspace config and applies flag and env overrides.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, NewCLIError("could not read workspace config", "Fix or remove .hilal/config.yaml", err)
	}
	if backend := viper.GetString("backend"); backend != "" {
		cfg.Store.Backend = backend
	}
	return cfg, nil
}

func loadServices(root string) (*wiring.AppServices, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	services, err := wiring.BuildAppServicesWithConfig(root, cfg, newLogger(cfg.Log.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return services, nil
}

func loadServicesForCurrentDir() (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return loadServices(root)
}

// withServices runs fn against freshly built services and maps its error.
func withServices(ctx context.Context, fn func(ctx context.Context, s *wiring.AppServices) error) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return MapError(err)
	}
	defer func() { _ = services.Close() }()
	return MapError(fn(application.WithActor(ctx, cliActor), services))
}

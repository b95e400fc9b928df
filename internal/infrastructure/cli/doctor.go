package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/config"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/storage"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Running Hilal Doctor...")

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		files := storage.NewFilesystemStore(root)

		hasIssues := false
		check := func(name string, fn func() error) {
			fmt.Printf("Checking %s... ", name)
			if err := fn(); err != nil {
				fmt.Printf("FAIL\n  Error: %v\n", err)
				hasIssues = true
			} else {
				fmt.Printf("PASS\n")
			}
		}

		check("Initialization", func() error {
			if !files.IsInitialized() {
				return fmt.Errorf(".hilal directory not found (run 'hilal init')")
			}
			return nil
		})

		var cfg *config.Config
		check("Config File", func() error {
			cfg, err = loadConfig(root)
			return err
		})
		if cfg == nil {
			return NewCLIError("workspace is unhealthy", "Fix .hilal/config.yaml and rerun 'hilal doctor'", nil)
		}

		services, err := wiring.BuildAppServicesWithConfig(root, cfg, nil)
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = services.Close() }()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		check("Stored Values", func() error {
			bad := 0
			for _, key := range domain.Keys {
				raw, found, err := services.Workspace.Store.Get(ctx, key)
				if err != nil {
					return err
				}
				if !found {
					continue
				}
				if err := storage.Validate(key, raw); err != nil {
					fmt.Printf("\n  %v", err)
					bad++
				}
			}
			if bad > 0 {
				fmt.Println()
				return fmt.Errorf("%d corrupt values are ignored and left on disk until repaired", bad)
			}
			return nil
		})

		var head *domain.Event
		check("Audit Trail", func() error {
			head, err = services.Workspace.Events.Last()
			if err != nil {
				return err
			}
			if head == nil {
				return fmt.Errorf("no events in %s (run 'hilal init')", services.Workspace.Events.Path())
			}
			return nil
		})
		if head != nil {
			fmt.Printf("  Chain head: %s %s at %s\n", shortHash(head.Hash), head.Action, head.Timestamp.Local().Format("2006-01-02 15:04"))
		}

		check("Audit Integrity", func() error {
			violations, err := services.Audit.VerifyIntegrity()
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d integrity violations found (run 'hilal audit verify')", len(violations))
			}
			return nil
		})

		if hasIssues {
			return NewCLIError("workspace is unhealthy", "Address the failures above and rerun 'hilal doctor'", nil)
		}
		fmt.Println("\nEverything looks good.")
		return nil
	},
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

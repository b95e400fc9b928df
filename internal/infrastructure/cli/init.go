package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/config"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	initName  string
	initStart string
	initEnd   string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a hilal workspace in the current directory",
	Long: `Creates .hilal/ with a config.yaml for the campaign window and seeds the
default recurring tasks and tasbeeh counters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		files := storage.NewFilesystemStore(root)
		if files.IsInitialized() && !initForce {
			if _, err := config.Load(root); err == nil {
				return NewCLIError("workspace already initialized", "Pass --force to rewrite config.yaml", nil)
			}
		}

		cfg := config.Default()
		if initName != "" {
			cfg.Campaign.Name = initName
		}
		if initStart != "" {
			cfg.Campaign.Start = initStart
		}
		if initEnd != "" {
			cfg.Campaign.End = initEnd
		}
		if backend := viper.GetString("backend"); backend != "" {
			cfg.Store.Backend = backend
		}
		if err := config.Save(root, cfg); err != nil {
			return NewCLIError("invalid workspace settings", "Check --start, --end and --backend", err)
		}

		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			if err := s.Checklist.Load(ctx); err != nil {
				return err
			}
			if err := s.Tasbeeh.Load(ctx); err != nil {
				return err
			}
			fmt.Printf("Initialized %s workspace in %s (%s to %s, %s store)\n",
				cfg.Campaign.Name, files.Dir(), cfg.Campaign.Start, cfg.Campaign.End, cfg.Store.Backend)
			return nil
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "campaign name")
	initCmd.Flags().StringVar(&initStart, "start", "", "first day of the campaign (YYYY-MM-DD)")
	initCmd.Flags().StringVar(&initEnd, "end", "", "last day of the campaign (YYYY-MM-DD)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config.yaml")
	RootCmd.AddCommand(initCmd)
}

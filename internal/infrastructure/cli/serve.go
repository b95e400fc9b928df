package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/httpapi"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the checklist REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("HILAL_SKIP_SERVE") == "true" {
			return nil
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return MapError(err)
		}
		defer func() { _ = services.Close() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler := httpapi.New(httpapi.Config{
			Checklist: services.Checklist,
			Audit:     services.Audit,
			Version:   Version,
			Log:       services.Log,
		})
		services.Log.Logf("[INFO] serving %s on %s", services.Workspace.Root, serveAddr)
		fmt.Printf("Listening on %s (OpenAPI at /openapi.json)\n", serveAddr)
		if err := httpapi.Serve(ctx, serveAddr, handler); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8081", "listen address")
	RootCmd.AddCommand(serveCmd)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/watch"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the active day whenever another process changes the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			if err := s.Workspace.Files.Initialize(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			once := os.Getenv("HILAL_WATCH_ONCE") == "true"

			changes := make(chan watch.Change, 1)
			w, err := watch.NewStoreWatcher(s.Workspace.Files.Dir(), watchDebounce, nil, func(c watch.Change) {
				select {
				case changes <- c:
				default:
				}
			})
			if err != nil {
				return err
			}
			errCh := make(chan error, 1)
			go func() { errCh <- w.Run(ctx) }()

			fmt.Printf("Watching %s for changes...\n", w.Dir())
			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-errCh:
					return err
				case c := <-changes:
					fmt.Printf("\nChanged at %s: %s\n", c.At.Format("15:04:05"), strings.Join(c.Keys, ", "))
					if err := s.Checklist.Load(ctx); err != nil {
						return err
					}
					day, err := s.Checklist.Day(ctx, "")
					if err != nil {
						return err
					}
					printActive(day)
					if once {
						return nil
					}
				}
			}
		})
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before reporting a change")
	RootCmd.AddCommand(watchCmd)
}

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	auditAction string
	auditLimit  int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and verify the workspace history",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded events, newest last",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			var (
				events []*domain.Event
				err    error
			)
			if auditAction != "" {
				events, err = s.Audit.Filter(auditAction)
			} else {
				events, err = s.Audit.GetTimeline()
			}
			if err != nil {
				return fmt.Errorf("read events: %w", err)
			}
			if auditLimit > 0 && len(events) > auditLimit {
				events = events[len(events)-auditLimit:]
			}
			if jsonOutput() {
				return printJSON(events)
			}
			if len(events) == 0 {
				fmt.Println("No events recorded.")
				return nil
			}
			tw := newTable()
			tw.AppendHeader(table.Row{"When", "Action", "Aggregate", "Actor", "Details"})
			for _, e := range events {
				tw.AppendRow(table.Row{e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Aggregate, e.Actor, details(e.Metadata)})
			}
			tw.Render()
			return nil
		})
	},
}

// details flattens metadata into sorted key=value pairs.
func details(meta map[string]interface{}) string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return strings.Join(parts, " ")
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the hash chain of the event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			fmt.Println("Verifying audit trail integrity...")
			violations, err := s.Audit.VerifyIntegrity()
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			if len(violations) == 0 {
				fmt.Println("Audit trail is intact and verified.")
				return nil
			}
			fmt.Printf("Found %d integrity violations:\n", len(violations))
			for _, v := range violations {
				fmt.Printf("  - %s\n", v)
			}
			return NewCLIError("audit trail is broken", "Restore .hilal/events.jsonl from a backup", nil)
		})
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditAction, "action", "", "only show events with this action, e.g. task.deleted_all")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 0, "show only the last n events")
	auditCmd.AddCommand(auditListCmd, auditVerifyCmd)
	RootCmd.AddCommand(auditCmd)
}

package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show or change the active date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			day, err := s.Checklist.Day(ctx, "")
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(day)
			}
			printActive(day)
			return nil
		})
	},
}

var dayUseCmd = &cobra.Command{
	Use:   "use <date>",
	Short: "Make a date the active one, copying recurring tasks onto it if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			day, err := s.Checklist.ChangeActiveDate(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(day)
			}
			printActive(day)
			return nil
		})
	},
}

func printActive(day application.DayView) {
	if day.DayIndex == 0 {
		fmt.Printf("Active date: %s (before the campaign)\n", day.Date)
		return
	}
	fmt.Printf("Active date: %s (day %d of %d, %s done)\n", day.Date, day.DayIndex, day.Length, statusText(day.Status))
}

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show completion for every campaign day up to today",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			days, err := s.Checklist.Calendar(ctx)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(days)
			}
			c := s.Checklist.Campaign()
			fmt.Printf("%s to %s\n", c.StartDate(), c.EndDate())

			tw := newTable()
			tw.AppendHeader(table.Row{"", "Day", "Date", "Done", "Status"})
			for _, d := range days {
				active := ""
				if d.Active {
					active = "*"
				}
				tw.AppendRow(table.Row{active, d.DayIndex, d.Date, mark(d.Completed), statusText(d.Status)})
			}
			tw.Render()
			return nil
		})
	},
}

func init() {
	dayCmd.AddCommand(dayUseCmd)
	RootCmd.AddCommand(dayCmd, calendarCmd)
}

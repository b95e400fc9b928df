package cli

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	taskDescription string
	taskItems       []string
	taskRecurring   bool
	taskDeleteMode  string
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"task"},
	Short:   "Manage the daily checklist",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the tasks for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			day, err := s.Checklist.Day(ctx, selectedDate())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(day)
			}
			printDay(day)
			return nil
		})
	},
}

func printDay(day application.DayView) {
	if day.DayIndex > 0 {
		fmt.Printf("%s  day %d of %d\n", day.Date, day.DayIndex, day.Length)
	} else {
		fmt.Printf("%s  outside the campaign\n", day.Date)
	}
	if len(day.Tasks) == 0 {
		fmt.Println("No tasks for this day.")
		return
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"", "ID", "Title", "Checklist"})
	for _, t := range day.Tasks {
		items := ""
		if t.HasItems() {
			items = fmt.Sprintf("%d/%d", t.ItemsDone(), len(t.ChecklistItems))
		}
		tw.AppendRow(table.Row{mark(t.IsCompleted), t.ID, t.Title, items})
		for _, item := range t.ChecklistItems {
			tw.AppendRow(table.Row{"", "", fmt.Sprintf("  %s %s (%s)", mark(item.IsCompleted), item.Text, item.ID), ""})
		}
	}
	tw.AppendFooter(table.Row{"", "", "Completed", statusText(day.Status)})
	tw.Render()
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title> --description <text>",
	Short: "Add a task to a day, or to every day with --recurring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := checklist.NewTask{
			Title:        args[0],
			Description:  taskDescription,
			HasChecklist: len(taskItems) > 0,
			Items:        taskItems,
			Recurring:    taskRecurring,
		}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			out, err := s.Checklist.AddTask(ctx, selectedDate(), in)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(out)
			}
			if out.Warning != nil {
				warnf("%s", out.Warning.Error())
			}
			scope := out.Date
			if in.Recurring && out.Warning == nil {
				scope = "every day from " + out.Date
			}
			fmt.Printf("Added task %d %q (%s)\n", out.Task.ID, out.Task.Title, scope)
			return nil
		})
	},
}

var tasksToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task between done and open",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			t, err := s.Checklist.ToggleTask(ctx, selectedDate(), id)
			if err != nil {
				return err
			}
			return printTask(t)
		})
	},
}

var tasksCheckCmd = &cobra.Command{
	Use:   "check <id> <item-id>",
	Short: "Flip one checklist item of a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			t, err := s.Checklist.ToggleChecklistItem(ctx, selectedDate(), id, args[1])
			if err != nil {
				return err
			}
			return printTask(t)
		})
	},
}

func printTask(t checklist.Task) error {
	if jsonOutput() {
		return printJSON(t)
	}
	fmt.Printf("%s %s\n", mark(t.IsCompleted), t.Title)
	for _, item := range t.ChecklistItems {
		fmt.Printf("    %s %s\n", mark(item.IsCompleted), item.Text)
	}
	return nil
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task from one day, or from every day with --mode all",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		mode, err := checklist.ParseDeleteMode(taskDeleteMode)
		if err != nil {
			return MapError(err)
		}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			if err := s.Checklist.DeleteTask(ctx, selectedDate(), id, mode); err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(map[string]any{"deleted": id, "mode": mode})
			}
			if mode == checklist.DeleteAll {
				fmt.Printf("Deleted task %d from every day\n", id)
			} else {
				fmt.Printf("Deleted task %d\n", id)
			}
			return nil
		})
	},
}

func init() {
	tasksAddCmd.Flags().StringVarP(&taskDescription, "description", "d", "", "task description (required)")
	tasksAddCmd.Flags().StringArrayVarP(&taskItems, "item", "i", nil, "checklist item (repeatable)")
	tasksAddCmd.Flags().BoolVarP(&taskRecurring, "recurring", "r", false, "add the task to every day")
	tasksDeleteCmd.Flags().StringVar(&taskDeleteMode, "mode", string(checklist.DeleteCurrent), "current or all")

	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksToggleCmd, tasksCheckCmd, tasksDeleteCmd)
	RootCmd.AddCommand(tasksCmd)
}

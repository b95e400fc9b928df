package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/felixgeelhaar/hilal/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/hilal/pkg/domain/tasbeeh"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	tasbeehText      string
	tasbeehTarget    int
	tasbeehColor     string
	tasbeehCount     int
	tasbeehVibration bool
	tasbeehSound     bool
)

var tasbeehCmd = &cobra.Command{
	Use:   "tasbeeh",
	Short: "Dhikr counters",
}

var tasbeehListCmd = &cobra.Command{
	Use:   "list",
	Short: "List counters; the active one is starred",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			st := s.Tasbeeh.State(ctx)
			if jsonOutput() {
				return printJSON(st)
			}
			tw := newTable()
			tw.AppendHeader(table.Row{"", "ID", "Name", "Count", "Target"})
			for _, t := range st.Tasbeehs {
				active := ""
				if t.ID == st.ActiveID {
					active = "*"
				}
				target := "-"
				if t.Target > 0 {
					target = strconv.Itoa(t.Target)
				}
				tw.AppendRow(table.Row{active, t.ID, t.Name, counterText(t), target})
			}
			tw.Render()
			fmt.Printf("Vibration: %s  Sound: %s\n", onOff(st.Settings.VibrationEnabled), onOff(st.Settings.SoundEnabled))
			return nil
		})
	},
}

func counterText(t tasbeeh.Tasbeeh) string {
	text := strconv.Itoa(t.Count)
	if t.Reached() {
		return color.GreenString(text)
	}
	return text
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var tasbeehAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a counter and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := tasbeeh.New{Name: args[0], Text: tasbeehText, Target: tasbeehTarget, Color: tasbeehColor}
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			t, err := s.Tasbeeh.Add(ctx, in)
			if err != nil {
				return err
			}
			return printCounter(t, false)
		})
	},
}

var tasbeehSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Make a counter the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			t, err := s.Tasbeeh.Select(ctx, args[0])
			if err != nil {
				return err
			}
			return printCounter(t, false)
		})
	},
}

var tasbeehIncCmd = &cobra.Command{
	Use:     "inc",
	Aliases: []string{"+"},
	Short:   "Count one on the active counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			t, reached, err := s.Tasbeeh.Increment(ctx)
			if err != nil {
				return err
			}
			return printCounter(t, reached)
		})
	},
}

var tasbeehDecCmd = &cobra.Command{
	Use:     "dec",
	Aliases: []string{"-"},
	Short:   "Take one off the active counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			t, err := s.Tasbeeh.Decrement(ctx)
			if err != nil {
				return err
			}
			return printCounter(t, false)
		})
	},
}

var tasbeehResetCmd = &cobra.Command{
	Use:   "reset [id]",
	Short: "Zero the active counter, or set a counter's count with --count",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			if len(args) == 1 {
				if err := s.Tasbeeh.SetCount(ctx, args[0], tasbeehCount); err != nil {
					return err
				}
				fmt.Printf("Set %s to %d\n", args[0], tasbeehCount)
				return nil
			}
			t, err := s.Tasbeeh.Reset(ctx)
			if err != nil {
				return err
			}
			return printCounter(t, false)
		})
	},
}

var tasbeehDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			if err := s.Tasbeeh.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted tasbeeh %s\n", args[0])
			return nil
		})
	},
}

var tasbeehSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change vibration and sound",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(ctx context.Context, s *wiring.AppServices) error {
			settings := s.Tasbeeh.State(ctx).Settings
			changed := false
			if cmd.Flags().Changed("vibration") {
				settings.VibrationEnabled = tasbeehVibration
				changed = true
			}
			if cmd.Flags().Changed("sound") {
				settings.SoundEnabled = tasbeehSound
				changed = true
			}
			if changed {
				settings = s.Tasbeeh.UpdateSettings(ctx, settings)
			}
			if jsonOutput() {
				return printJSON(settings)
			}
			fmt.Printf("Vibration: %s  Sound: %s\n", onOff(settings.VibrationEnabled), onOff(settings.SoundEnabled))
			return nil
		})
	},
}

func printCounter(t tasbeeh.Tasbeeh, reached bool) error {
	if jsonOutput() {
		return printJSON(map[string]any{"tasbeeh": t, "reached": reached})
	}
	if t.Target > 0 {
		fmt.Printf("%s: %s/%d\n", t.Name, counterText(t), t.Target)
	} else {
		fmt.Printf("%s: %s\n", t.Name, counterText(t))
	}
	if reached {
		fmt.Println(color.GreenString("Target reached!"))
	}
	return nil
}

func init() {
	tasbeehAddCmd.Flags().StringVar(&tasbeehText, "text", "", "the phrase being counted")
	tasbeehAddCmd.Flags().IntVar(&tasbeehTarget, "target", 33, "target count, 0 for open-ended")
	tasbeehAddCmd.Flags().StringVar(&tasbeehColor, "color", "", "display color")
	tasbeehResetCmd.Flags().IntVar(&tasbeehCount, "count", 0, "count to set when an id is given")
	tasbeehSettingsCmd.Flags().BoolVar(&tasbeehVibration, "vibration", true, "vibrate when a target is reached")
	tasbeehSettingsCmd.Flags().BoolVar(&tasbeehSound, "sound", true, "play a sound on each count")

	tasbeehCmd.AddCommand(tasbeehListCmd, tasbeehAddCmd, tasbeehSelectCmd, tasbeehIncCmd,
		tasbeehDecCmd, tasbeehResetCmd, tasbeehDeleteCmd, tasbeehSettingsCmd)
	RootCmd.AddCommand(tasbeehCmd)
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish|powershell]",
	Short:     "Generate shell completion scripts",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return RootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return RootCmd.GenZshCompletion(out)
		case "fish":
			return RootCmd.GenFishCompletion(out, true)
		default:
			return RootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

// completeTaskIDs offers the ids of the selected day's tasks, titled.
func completeTaskIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer func() { _ = services.Close() }()

	day, err := services.Checklist.Day(cmd.Context(), selectedDate())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]string, 0, len(day.Tasks))
	for _, t := range day.Tasks {
		out = append(out, strconv.FormatInt(t.ID, 10)+"\t"+t.Title)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeTasbeehIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer func() { _ = services.Close() }()

	st := services.Tasbeeh.State(cmd.Context())
	out := make([]string, 0, len(st.Tasbeehs))
	for _, t := range st.Tasbeehs {
		out = append(out, fmt.Sprintf("%s\t%s", t.ID, t.Name))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	for _, c := range []*cobra.Command{tasksToggleCmd, tasksCheckCmd, tasksDeleteCmd} {
		c.ValidArgsFunction = completeTaskIDs
	}
	for _, c := range []*cobra.Command{tasbeehSelectCmd, tasbeehDeleteCmd, tasbeehResetCmd} {
		c.ValidArgsFunction = completeTasbeehIDs
	}
	_ = tasksDeleteCmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions([]string{"current", "all"}, cobra.ShellCompDirectiveNoFileComp))
	RootCmd.AddCommand(completionCmd)
}

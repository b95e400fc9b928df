package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput() {
			return printJSON(map[string]string{"version": Version, "commit": Commit, "date": Date})
		}
		fmt.Printf("hilal %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

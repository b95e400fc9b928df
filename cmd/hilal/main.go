package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli.RootCmd.SetArgs(args)
	err := cli.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *cli.CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Hint != "" {
			fmt.Fprintln(os.Stderr, "Hint:", cliErr.Hint)
		}
		return cliErr.ExitCode
	}
	return 1
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/jedib0t/go-pretty/v6/table"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	return tw
}

func mark(done bool) string {
	if done {
		return color.GreenString("✓")
	}
	return "·"
}

func warnf(format string, args ...any) {
	fmt.Println(color.YellowString("Warning: "+format, args...))
}

func statusText(s checklist.Status) string {
	text := fmt.Sprintf("%d/%d", s.Completed, s.Total)
	if s.Total > 0 && s.Completed >= s.Total {
		return color.GreenString(text)
	}
	return text
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, NewCLIError(fmt.Sprintf("invalid task id %q", arg), "Use the numeric id shown by 'hilal tasks list'", err)
	}
	return id, nil
}

func parseNumber(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, NewCLIError(fmt.Sprintf("invalid %s %q", what, arg), "Pass a whole number", err)
	}
	return n, nil
}

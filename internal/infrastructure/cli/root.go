package cli

import (
	"os"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "hilal",
	Version: Version,
	Short:   "A Ramadan companion for daily worship tasks, dhikr counters and Quran reading",
	Long: `Hilal keeps a daily checklist of worship tasks across the Ramadan window.
Recurring tasks are copied onto each day the first time it is opened,
completion is tracked per day, and a tasbeeh counter and Quran reader
share the same workspace store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := RootCmd.PersistentFlags()
	pf.StringP("workspace", "w", "", "workspace directory (default is the current directory)")
	pf.String("date", "", "date to act on as YYYY-MM-DD (default is the active date)")
	pf.Bool("json", false, "output JSON")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("backend", "", "store backend override: file or sqlite")
	for _, name := range []string{"workspace", "date", "json", "log-level", "backend"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initConfig() {
	viper.SetEnvPrefix("HILAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// newLogger writes to stderr so --json output stays clean. level falls back
// to the config file value when the flag and env are unset.
func newLogger(level string) lgr.L {
	if l := viper.GetString("log-level"); l != "" {
		level = l
	}
	opts := []lgr.Option{lgr.Msec, lgr.Out(os.Stderr), lgr.Err(os.Stderr)}
	if strings.EqualFold(level, "debug") {
		opts = append(opts, lgr.Debug)
	}
	return lgr.New(opts...)
}

func jsonOutput() bool {
	return viper.GetBool("json")
}

func selectedDate() string {
	return viper.GetString("date")
}

package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"chartlint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "chartlint",
	Short: "Layout checks for matplotlib chart scripts",
	Long: `chartlint reads chart.py scripts and reports overlapping labels,
text that is too small once the chart is embedded in a slide, and
undersized font declarations (which it can rewrite in place).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushTracing()
	},
}

// main registers subcommands and persistent flags and runs the root command.
// Execution errors exit with status 2, reports with issues exit with 1.
func main() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Short() + "\n")

	rootCmd.AddCommand(overlapCmd)
	rootCmd.AddCommand(readabilityCmd)
	rootCmd.AddCommand(fontsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "path to chartlint.toml (default: discovered from the target upwards)")
	pf.String("format", "pretty", "output format (pretty|short|json|yaml)")
	pf.Int("jobs", 0, "max parallel workers (0=GOMAXPROCS)")
	pf.Int("max-diagnostics", 0, "maximum number of issues kept per file (0=unlimited)")
	pf.Bool("timings", false, "show timing information")
	pf.Bool("verbose", false, "report calls the static pass could not interpret (PARSE_LIMIT)")
	pf.Bool("cache", false, "reuse static reports from the disk cache")
	pf.Bool("suggest", false, "show suggested fixes with a preview of the edit")
	pf.Bool("with-notes", true, "include notes in output")
	pf.Bool("fullpath", false, "emit absolute file paths in output")
	pf.String("ui", "auto", "progress UI for batch runs (auto|on|off)")
	pf.String("trace", "", "write a trace to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		flushTracing()
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

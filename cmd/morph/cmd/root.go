package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose   bool
	colorMode string
)

var rootCmd = &cobra.Command{
	Use:   "morph",
	Short: "Convert structured data between formats with a small mapping language",
	Long: `morph converts structured data (JSON, JSON-Lines, YAML, TOML, CSV/TSV,
XML, MessagePack, S-expressions, query strings, EDN) between formats,
optionally reshaping each record through a small mapping language on the
way: renaming and dropping fields, flattening and nesting, casting types,
filtering and sorting records, and computing new fields from old ones.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// UsageError marks a failure as a usage error (spec §6.4: exit code 2),
// as opposed to a runtime failure during parsing, evaluation, or I/O
// (exit code 1).
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "colorize diagnostics: auto, always, or never")
}

// useColor resolves the --color flag against NO_COLOR (https://no-color.org)
// and whether stderr looks like a terminal, matching the teacher's
// errors.CompilerError.Format(color bool) parameter.
func useColor() bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		if _, set := os.LookupEnv("NO_COLOR"); set {
			return false
		}
		stat, err := os.Stderr.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
}

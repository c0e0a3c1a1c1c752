package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/builtins"
	"github.com/morphcli/morph/internal/diag"
	"github.com/morphcli/morph/internal/eval"
	"github.com/morphcli/morph/internal/format"
	"github.com/morphcli/morph/internal/lexer"
	"github.com/morphcli/morph/internal/parser"
	"github.com/morphcli/morph/internal/uv"
)

var (
	runFrom        string
	runTo          string
	runInput       string
	runOutput      string
	runMappingEval string
	runDryRun      bool
	runSkipErrors  bool
	runListFormats bool
)

var runCmd = &cobra.Command{
	Use:   "run [mapping-file]",
	Short: "Convert structured data between formats, optionally reshaping it",
	Long: `Read records in one format, optionally reshape each one through a
mapping program, and write them out in another format.

If no mapping file or -e expression is given, records pass through
unchanged and run behaves as a pure format converter.

Examples:
  # Convert JSON to YAML with no reshaping
  morph run -f json -t yaml -i data.json -o data.yaml

  # Reshape CSV rows into JSON-Lines using a mapping file
  morph run pipeline.morph -f csv -t jsonl -i rows.csv -o rows.jsonl

  # Reshape via an inline mapping program, reading/writing stdio
  morph run -e 'rename .old -> new' -f json -t json < in.json > out.json

  # Validate a mapping program without touching any data
  morph run pipeline.morph --dry-run

  # List every registered format and its extensions
  morph run --list-formats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFrom, "from", "f", "", "input format (inferred from the input file extension if omitted)")
	runCmd.Flags().StringVarP(&runTo, "to", "t", "", "output format (inferred from the output file extension if omitted)")
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input file (default: stdin)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output file (default: stdout)")
	runCmd.Flags().StringVarP(&runMappingEval, "eval", "e", "", "inline mapping program instead of a mapping file")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "validate the mapping program without reading or writing any data")
	runCmd.Flags().BoolVar(&runSkipErrors, "skip-errors", false, "downgrade per-record evaluation failures to warnings and continue")
	runCmd.Flags().BoolVar(&runListFormats, "list-formats", false, "list every registered format and its extensions, then exit")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if runListFormats {
		printFormatList()
		return nil
	}

	program, mappingFile, err := loadMapping(args)
	if err != nil {
		return err
	}

	if runDryRun {
		if verbose {
			fmt.Fprintf(os.Stderr, "%s: mapping is valid\n", mappingFile)
		}
		return nil
	}

	fromFormat, err := resolveFormat(runFrom, runInput)
	if err != nil {
		return err
	}
	toFormat, err := resolveFormat(runTo, runOutput)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(runInput)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer closeIn()

	decoded, err := format.DecodeInput(in)
	if err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}

	records, err := fromFormat.Reader.Read(decoded)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	out, closeOut, err := createOutput(runOutput)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer closeOut()

	results, warnCount, err := applyMapping(program, records)
	if err != nil {
		return err
	}

	if err := toFormat.Writer.Write(out, results); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if verbose && warnCount > 0 {
		fmt.Fprintf(os.Stderr, "%d record(s) skipped due to errors\n", warnCount)
	}

	return nil
}

// loadMapping parses the mapping program from -e or a positional file
// argument. A nil *ast.Program means "pass records through unchanged".
func loadMapping(args []string) (*ast.Program, string, error) {
	var src, filename string

	switch {
	case runMappingEval != "":
		src, filename = runMappingEval, "<eval>"
	case len(args) == 1:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, filename, fmt.Errorf("failed to read mapping file %s: %w", filename, err)
		}
		src = string(data)
	default:
		return nil, "", nil
	}

	l := lexer.New(src)
	program, perrs, lerrs := parser.ParseProgram(l)
	if len(lerrs) > 0 || len(perrs) > 0 {
		diags := collectParseDiagnostics(lerrs, perrs, src, filename)
		fmt.Fprint(os.Stderr, diag.FormatAll(diags, useColor()))
		return nil, filename, fmt.Errorf("mapping failed to parse with %d error(s)", len(diags))
	}

	return program, filename, nil
}

// applyMapping runs program against each record in turn. A top-level
// `where` guard that fails yields a literal Null record rather than
// omitting it (spec §4.4); a failure is either fatal or, under
// --skip-errors, a warning that drops just that record.
func applyMapping(program *ast.Program, records []*uv.Value) ([]*uv.Value, int, error) {
	if program == nil {
		return records, 0, nil
	}

	ev := eval.New(builtins.Deps{
		Now: func() int64 { return time.Now().Unix() },
		Env: os.LookupEnv,
		Warn: func(message string) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", message)
		},
	})

	results := make([]*uv.Value, 0, len(records))
	warnCount := 0
	for i, rec := range records {
		res, err := ev.Run(program, rec)
		if err != nil {
			if runSkipErrors {
				fmt.Fprintf(os.Stderr, "warning: record %d: %v\n", i, err)
				warnCount++
				continue
			}
			return nil, warnCount, fmt.Errorf("record %d: %w", i, err)
		}
		results = append(results, res.Value)
	}

	return results, warnCount, nil
}

// resolveFormat finds a Format by an explicit flag value, falling back to
// the extension of path. Neither available is a usage error (spec §6.4:
// exit code 2).
func resolveFormat(explicit, path string) (*format.Format, error) {
	if explicit != "" {
		f, ok := format.Lookup(explicit)
		if !ok {
			return nil, &UsageError{Msg: fmt.Sprintf("unknown format %q (see --list-formats)", explicit)}
		}
		return f, nil
	}

	if path == "" || path == "-" {
		return nil, &UsageError{Msg: "cannot infer format for stdin/stdout; pass -f/-t explicitly"}
	}

	ext := filepath.Ext(path)
	f, ok := format.LookupExtension(ext)
	if !ok {
		return nil, &UsageError{Msg: fmt.Sprintf("no format registered for extension %q; pass -f/-t explicitly", ext)}
	}
	return f, nil
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func createOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func printFormatList() {
	for _, name := range format.Names() {
		f, _ := format.Lookup(name)
		kind := "document"
		if f.Records {
			kind = "records"
		}
		fmt.Printf("%-10s %-10s %s\n", f.Name, kind, joinExtensions(f.Extensions))
	}
}

func joinExtensions(exts []string) string {
	out := ""
	for i, ext := range exts {
		if i > 0 {
			out += ", "
		}
		out += ext
	}
	return out
}

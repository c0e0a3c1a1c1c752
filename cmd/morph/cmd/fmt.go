package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/morphcli/morph/internal/diag"
	"github.com/morphcli/morph/internal/lexer"
	"github.com/morphcli/morph/internal/mlfmt"
	"github.com/morphcli/morph/internal/parser"
)

var (
	fmtWrite   bool
	fmtList    bool
	fmtDiff    bool
	fmtIndent  int
	fmtUseTabs bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Format mapping-language files",
	Long: `Format mapping-language files using the AST-driven printer.

fmt reads a mapping program, parses it, and pretty-prints it back to
source with consistent statement layout and indentation.

By default, fmt formats the named files and writes the result to
standard output. If no path is given, it reads from standard input.

Examples:
  # Format a single file to stdout
  morph fmt pipeline.morph

  # Overwrite files with their formatted version
  morph fmt -w pipeline.morph

  # List files that are not already formatted
  morph fmt -l *.morph

  # Show what would change
  morph fmt -d pipeline.morph`,
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "write result to (source) file instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list files whose formatting differs")
	fmtCmd.Flags().BoolVarP(&fmtDiff, "diff", "d", false, "display diffs instead of rewriting files")
	fmtCmd.Flags().IntVar(&fmtIndent, "indent", 2, "number of spaces per indentation level")
	fmtCmd.Flags().BoolVar(&fmtUseTabs, "tabs", false, "use tabs instead of spaces for indentation")
}

func runFmt(cmd *cobra.Command, args []string) error {
	if fmtWrite && fmtList {
		return fmt.Errorf("cannot use -w and -l together")
	}
	if fmtWrite && fmtDiff {
		return fmt.Errorf("cannot use -w and -d together")
	}

	opts := mlfmt.Options{IndentWidth: fmtIndent, UseSpaces: !fmtUseTabs}

	if len(args) == 0 {
		return formatStdin(opts)
	}

	hasErrors := false
	for _, path := range args {
		if err := formatFile(path, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			hasErrors = true
		}
	}

	if hasErrors {
		return fmt.Errorf("formatting failed for one or more files")
	}

	return nil
}

func formatStdin(opts mlfmt.Options) error {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("error reading stdin: %w", err)
	}

	formatted, err := formatSource(string(src), "<stdin>", opts)
	if err != nil {
		return err
	}

	fmt.Print(formatted)
	return nil
}

func formatFile(filename string, opts mlfmt.Options) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	original := string(src)

	formatted, err := formatSource(original, filename, opts)
	if err != nil {
		return err
	}

	changed := original != formatted

	switch {
	case fmtList:
		if changed {
			fmt.Println(filename)
		}
	case fmtDiff:
		if changed {
			fmt.Printf("--- %s (original)\n", filename)
			fmt.Printf("+++ %s (formatted)\n", filename)
			showDiff(original, formatted)
		}
	case fmtWrite:
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("error writing file: %w", err)
			}
			if verbose {
				fmt.Printf("Formatted %s\n", filename)
			}
		}
	default:
		fmt.Print(formatted)
	}

	return nil
}

func formatSource(source, filename string, opts mlfmt.Options) (string, error) {
	l := lexer.New(source)
	program, perrs, lerrs := parser.ParseProgram(l)

	if len(lerrs) > 0 || len(perrs) > 0 {
		diags := collectParseDiagnostics(lerrs, perrs, source, filename)
		return "", fmt.Errorf("%s", diag.FormatAll(diags, useColor()))
	}

	return mlfmt.Print(program, opts), nil
}

func showDiff(original, formatted string) {
	origLines := bytes.Split([]byte(original), []byte("\n"))
	fmtLines := bytes.Split([]byte(formatted), []byte("\n"))

	maxLines := len(origLines)
	if len(fmtLines) > maxLines {
		maxLines = len(fmtLines)
	}

	for i := 0; i < maxLines; i++ {
		var origLine, fmtLine []byte
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if !bytes.Equal(origLine, fmtLine) {
			if len(origLine) > 0 {
				fmt.Printf("- %s\n", origLine)
			}
			if len(fmtLine) > 0 {
				fmt.Printf("+ %s\n", fmtLine)
			}
		}
	}
}

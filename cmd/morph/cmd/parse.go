package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/diag"
	"github.com/morphcli/morph/internal/lexer"
	"github.com/morphcli/morph/internal/mlfmt"
	"github.com/morphcli/morph/internal/parser"
)

var (
	parseExpr    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a mapping-language program and display its AST",
	Long: `Parse a mapping-language program and display the resulting statements.

If no file is provided, reads from stdin. Use -e to parse an inline
mapping program instead. Use --dump-ast to show the raw statement tree
rather than the re-printed (canonical) source.

Examples:
  # Parse a mapping file and show its canonical form
  morph parse pipeline.morph

  # Parse an inline mapping program
  morph parse -e 'rename .old -> new'

  # Dump the raw AST structure
  morph parse --dump-ast pipeline.morph`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse an inline mapping program instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the raw AST structure instead of re-printed source")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string
	var filename string

	switch {
	case parseExpr != "":
		input = parseExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	l := lexer.New(input)
	program, perrs, lerrs := parser.ParseProgram(l)

	if len(lerrs) > 0 || len(perrs) > 0 {
		diags := collectParseDiagnostics(lerrs, perrs, input, filename)
		fmt.Fprint(os.Stderr, diag.FormatAll(diags, useColor()))
		return fmt.Errorf("parsing failed with %d error(s)", len(diags))
	}

	if parseDumpAST {
		fmt.Println("Program:")
		for i, stmt := range program.Statements {
			fmt.Printf("[%d] ", i)
			dumpASTNode(stmt, 0)
		}
		return nil
	}

	fmt.Print(mlfmt.Print(program, mlfmt.DefaultOptions()))
	return nil
}

func collectParseDiagnostics(lerrs []lexer.Error, perrs []*parser.Error, source, filename string) []*diag.Diagnostic {
	diags := make([]*diag.Diagnostic, 0, len(lerrs)+len(perrs))
	for _, le := range lerrs {
		diags = append(diags, diag.New(diag.KindLex, le.Pos, le.Message, source, filename))
	}
	for _, pe := range perrs {
		d := diag.New(diag.KindParse, pe.Pos, pe.Message, source, filename)
		d.Hint = pe.Hint
		diags = append(diags, d)
	}
	return diags
}

func dumpASTNode(node any, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	switch n := node.(type) {
	case *ast.RenameStmt:
		fmt.Printf("RenameStmt %s -> %s\n", n.From.Raw, n.To)
	case *ast.SelectStmt:
		fmt.Printf("SelectStmt %d path(s)\n", len(n.Paths))
	case *ast.DropStmt:
		fmt.Printf("DropStmt %d path(s)\n", len(n.Paths))
	case *ast.FlattenStmt:
		fmt.Printf("FlattenStmt %s\n", n.Path.Raw)
	case *ast.NestStmt:
		fmt.Printf("NestStmt %d path(s) -> %s\n", len(n.Paths), n.Name)
	case *ast.SetStmt:
		fmt.Printf("SetStmt %s\n", n.Path.Raw)
	case *ast.DefaultStmt:
		fmt.Printf("DefaultStmt %s\n", n.Path.Raw)
	case *ast.CastStmt:
		fmt.Printf("CastStmt %s\n", n.Path.Raw)
	case *ast.WhereStmt:
		fmt.Printf("WhereStmt\n")
	case *ast.SortStmt:
		keys := make([]string, len(n.Keys))
		for i, k := range n.Keys {
			dir := "asc"
			if k.Direction == ast.SortDesc {
				dir = "desc"
			}
			keys[i] = fmt.Sprintf("%s %s", k.Path.Raw, dir)
		}
		fmt.Printf("SortStmt %s\n", strings.Join(keys, ", "))
	case *ast.EachStmt:
		fmt.Printf("EachStmt %s (%d statements)\n", n.Path.Raw, len(n.Body))
		for _, stmt := range n.Body {
			fmt.Print(indent + "  ")
			dumpASTNode(stmt, depth+1)
		}
	case *ast.WhenStmt:
		fmt.Printf("WhenStmt (%d statements)\n", len(n.Body))
		for _, stmt := range n.Body {
			fmt.Print(indent + "  ")
			dumpASTNode(stmt, depth+1)
		}
	default:
		fmt.Printf("%T\n", node)
	}
}

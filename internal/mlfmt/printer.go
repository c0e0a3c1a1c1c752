// Package mlfmt pretty-prints a mapping-language AST back to canonical
// source text, for the `morph fmt` subcommand. The printer.Options/Style
// shape (an indent width plus a small style enum) is grounded on the
// teacher's pkg/printer package, referenced from cmd/dwscript/cmd/fmt.go
// (the printer.go source itself was not present in the retrieved copy,
// only its tests and callers); this package reconstructs the idiom for
// the mapping language's much smaller statement grammar.
package mlfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/uv"
)

// Options configures Print's output.
type Options struct {
	IndentWidth int
	UseSpaces   bool
}

// DefaultOptions matches the teacher's fmt command defaults (2-space
// indent).
func DefaultOptions() Options {
	return Options{IndentWidth: 2, UseSpaces: true}
}

type printer struct {
	opts Options
	sb   strings.Builder
}

// Print renders prog as mapping-language source, one statement per line.
func Print(prog *ast.Program, opts Options) string {
	p := &printer{opts: opts}
	for _, stmt := range prog.Statements {
		p.printStatement(stmt, 0)
	}
	return p.sb.String()
}

func (p *printer) indent(depth int) string {
	unit := "\t"
	if p.opts.UseSpaces {
		unit = strings.Repeat(" ", p.opts.IndentWidth)
	}
	return strings.Repeat(unit, depth)
}

func (p *printer) printStatement(stmt ast.Statement, depth int) {
	p.sb.WriteString(p.indent(depth))
	switch s := stmt.(type) {
	case *ast.RenameStmt:
		fmt.Fprintf(&p.sb, "rename %s -> %s", s.From.Raw, s.To)
	case *ast.SelectStmt:
		fmt.Fprintf(&p.sb, "select %s", joinPaths(s.Paths))
	case *ast.DropStmt:
		fmt.Fprintf(&p.sb, "drop %s", joinPaths(s.Paths))
	case *ast.FlattenStmt:
		fmt.Fprintf(&p.sb, "flatten %s", s.Path.Raw)
		if s.HasPrefix {
			fmt.Fprintf(&p.sb, " -> prefix %s", quote(s.Prefix))
		}
		if len(s.Targets) > 0 {
			fmt.Fprintf(&p.sb, " -> %s", joinPaths(s.Targets))
		}
	case *ast.NestStmt:
		fmt.Fprintf(&p.sb, "nest %s -> %s", joinPaths(s.Paths), s.Name)
	case *ast.SetStmt:
		fmt.Fprintf(&p.sb, "set %s = %s", s.Path.Raw, p.printExpr(s.Value))
	case *ast.DefaultStmt:
		fmt.Fprintf(&p.sb, "default %s = %s", s.Path.Raw, p.printExpr(s.Value))
	case *ast.CastStmt:
		fmt.Fprintf(&p.sb, "cast %s as %s", s.Path.Raw, castTargetName(s.Target))
	case *ast.WhereStmt:
		fmt.Fprintf(&p.sb, "where %s", p.printExpr(s.Cond))
	case *ast.SortStmt:
		p.sb.WriteString("sort ")
		for i, key := range s.Keys {
			if i > 0 {
				p.sb.WriteString(", ")
			}
			fmt.Fprintf(&p.sb, "%s", key.Path.Raw)
			if key.Direction == ast.SortDesc {
				p.sb.WriteString(" desc")
			} else {
				p.sb.WriteString(" asc")
			}
		}
	case *ast.EachStmt:
		fmt.Fprintf(&p.sb, "each %s {\n", s.Path.Raw)
		p.printBlock(s.Body, depth+1)
		p.sb.WriteString(p.indent(depth) + "}")
	case *ast.WhenStmt:
		fmt.Fprintf(&p.sb, "when %s {\n", p.printExpr(s.Cond))
		p.printBlock(s.Body, depth+1)
		p.sb.WriteString(p.indent(depth) + "}")
	}
	p.sb.WriteString("\n")
}

func (p *printer) printBlock(stmts []ast.Statement, depth int) {
	for _, stmt := range stmts {
		p.printStatement(stmt, depth)
	}
}

func joinPaths(paths []*ast.PathExpr) string {
	parts := make([]string, len(paths))
	for i, path := range paths {
		parts[i] = path.Raw
	}
	return strings.Join(parts, ", ")
}

func castTargetName(t ast.CastTarget) string {
	switch t {
	case ast.CastInt:
		return "int"
	case ast.CastFloat:
		return "float"
	case ast.CastBool:
		return "bool"
	default:
		return "string"
	}
}

func quote(s string) string {
	return strconv.Quote(s)
}

func (p *printer) printExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.LitInt:
			return strconv.FormatInt(e.IntVal, 10)
		case ast.LitFloat:
			return uv.FormatFloat(e.FloatVal)
		case ast.LitString:
			return quote(e.StrVal)
		case ast.LitBool:
			return strconv.FormatBool(e.BoolVal)
		default:
			return "null"
		}
	case *ast.PathExpr:
		return e.Raw
	case *ast.ArrayLiteral:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = p.printExpr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", p.printExpr(e.Left), binaryOpSymbol(e.Op), p.printExpr(e.Right))
	case *ast.UnaryExpr:
		if e.Op == ast.OpNot {
			return "not " + p.printExpr(e.Operand)
		}
		return "-" + p.printExpr(e.Operand)
	case *ast.CallExpr:
		parts := make([]string, len(e.Args))
		for i, arg := range e.Args {
			parts[i] = p.printExpr(arg)
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
	case *ast.Interpolation:
		var sb strings.Builder
		sb.WriteByte('"')
		for _, part := range e.Parts {
			if part.Expr == nil {
				sb.WriteString(escapeStringLiteral(part.Literal))
				continue
			}
			sb.WriteByte('{')
			sb.WriteString(p.printExpr(part.Expr))
			sb.WriteByte('}')
		}
		sb.WriteByte('"')
		return sb.String()
	default:
		return ""
	}
}

func escapeStringLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "{", "{{", "}", "}}")
	return r.Replace(s)
}

func binaryOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpEq:
		return "=="
	case ast.OpNotEq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLtEq:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGtEq:
		return ">="
	case ast.OpAnd:
		return "and"
	default:
		return "or"
	}
}

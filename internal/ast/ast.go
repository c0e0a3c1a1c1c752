// Package ast defines the mapping language's abstract syntax tree (spec
// §3.3, §4.2): a Program is a sequence of Statements; Statements may
// contain Expressions. The tagged-interface node style (a small marker
// method per node category, one file per statement/expression family)
// follows the teacher's ast package in go-dws.
package ast

import "github.com/morphcli/morph/internal/token"

// Node is any AST node; every node can report the source span it came
// from for diagnostics (spec §7).
type Node interface {
	Pos() token.Position
}

// Statement is a top-level mapping-language statement (spec §4.2):
// rename, select, drop, flatten, nest, set, default, cast, where, sort,
// each, when.
type Statement interface {
	Node
	statementNode()
}

// Expression is any value-producing mapping-language expression: a
// literal, a path reference, a binary/unary operation, a function call,
// or a string interpolation.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: a sequence of statements executed in order
// against the current scope (spec §4.4).
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) == 0 {
		return token.Position{}
	}
	return p.Statements[0].Pos()
}

package ast

import "github.com/morphcli/morph/internal/token"

// PathExpr references a location in the current scope, e.g. `.a.b[0]`
// (spec §3.2).
type PathExpr struct {
	Position token.Position
	Raw      string // original source text, reused as the diagnostic anchor
}

func (e *PathExpr) Pos() token.Position { return e.Position }
func (*PathExpr) expressionNode()       {}

// LiteralKind identifies which Go-level type a Literal holds.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

// Literal is a constant int/float/string/bool/null value written directly
// in mapping-language source.
type Literal struct {
	Position token.Position
	Kind     LiteralKind
	IntVal   int64
	FloatVal float64
	StrVal   string
	BoolVal  bool
}

func (e *Literal) Pos() token.Position { return e.Position }
func (*Literal) expressionNode()       {}

// ArrayLiteral is a bracketed, comma-separated list of expressions, e.g.
// `[1, 2, 3]`.
type ArrayLiteral struct {
	Position token.Position
	Elements []Expression
}

func (e *ArrayLiteral) Pos() token.Position { return e.Position }
func (*ArrayLiteral) expressionNode()       {}

// BinaryOp identifies a two-operand operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpAnd
	OpOr
)

// BinaryExpr is a two-operand expression, e.g. `.price * 1.1`.
type BinaryExpr struct {
	Position token.Position
	Op       BinaryOp
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Position }
func (*BinaryExpr) expressionNode()       {}

// UnaryOp identifies a one-operand prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// UnaryExpr is a prefix expression, e.g. `not .active` or `-.amount`.
type UnaryExpr struct {
	Position token.Position
	Op       UnaryOp
	Operand  Expression
}

func (e *UnaryExpr) Pos() token.Position { return e.Position }
func (*UnaryExpr) expressionNode()       {}

// CallExpr invokes a built-in function by name (spec §4.6). Function
// names are resolved against the builtin registry at parse time; this
// node just carries the raw call.
type CallExpr struct {
	Position token.Position
	Name     string
	Args     []Expression
}

func (e *CallExpr) Pos() token.Position { return e.Position }
func (*CallExpr) expressionNode()       {}

// InterpolationPart is one piece of an interpolated string: either a
// literal text run or an embedded expression (spec §4.1 `"{...}"`).
type InterpolationPart struct {
	Literal string
	Expr    Expression // nil when this part is a literal run
}

// Interpolation is a string literal containing one or more `{expr}`
// substitutions.
type Interpolation struct {
	Position token.Position
	Parts    []InterpolationPart
}

func (e *Interpolation) Pos() token.Position { return e.Position }
func (*Interpolation) expressionNode()       {}

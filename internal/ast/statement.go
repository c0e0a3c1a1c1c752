package ast

import "github.com/morphcli/morph/internal/token"

// RenameStmt renames a field in place: `rename .old -> new`.
type RenameStmt struct {
	Position token.Position
	From     *PathExpr
	To       string
}

func (s *RenameStmt) Pos() token.Position { return s.Position }
func (*RenameStmt) statementNode()        {}

// SelectStmt projects the current scope down to only the listed paths:
// `select .a, .b.c`.
type SelectStmt struct {
	Position token.Position
	Paths    []*PathExpr
}

func (s *SelectStmt) Pos() token.Position { return s.Position }
func (*SelectStmt) statementNode()        {}

// DropStmt removes the listed paths from the current scope: `drop .a, .b`.
type DropStmt struct {
	Position token.Position
	Paths    []*PathExpr
}

func (s *DropStmt) Pos() token.Position { return s.Position }
func (*DropStmt) statementNode()        {}

// FlattenStmt merges a nested Map's fields up into its parent, optionally
// prefixing each promoted key and optionally restricting which keys are
// promoted: `flatten .address -> prefix "addr_" -> .city, .zip`. When
// Targets is empty, every child of the map at Path is promoted.
type FlattenStmt struct {
	Position  token.Position
	Path      *PathExpr
	Prefix    string
	HasPrefix bool
	Targets   []*PathExpr
}

func (s *FlattenStmt) Pos() token.Position { return s.Position }
func (*FlattenStmt) statementNode()        {}

// NestStmt groups several sibling paths into one new nested Map:
// `nest .street, .city -> address`.
type NestStmt struct {
	Position token.Position
	Paths    []*PathExpr
	Name     string
}

func (s *NestStmt) Pos() token.Position { return s.Position }
func (*NestStmt) statementNode()        {}

// SetStmt writes the result of an expression at a path, creating missing
// intermediate Maps: `set .total = .price * .qty`.
type SetStmt struct {
	Position token.Position
	Path     *PathExpr
	Value    Expression
}

func (s *SetStmt) Pos() token.Position { return s.Position }
func (*SetStmt) statementNode()        {}

// DefaultStmt is like SetStmt but only takes effect when the path is
// currently absent or null: `default .status = "unknown"`.
type DefaultStmt struct {
	Position token.Position
	Path     *PathExpr
	Value    Expression
}

func (s *DefaultStmt) Pos() token.Position { return s.Position }
func (*DefaultStmt) statementNode()        {}

// CastTarget names a scalar kind a CastStmt may coerce to.
type CastTarget int

const (
	CastInt CastTarget = iota
	CastFloat
	CastBool
	CastString
)

// CastStmt coerces the value at a path to a target kind in place:
// `cast .id as string`.
type CastStmt struct {
	Position token.Position
	Path     *PathExpr
	Target   CastTarget
}

func (s *CastStmt) Pos() token.Position { return s.Position }
func (*CastStmt) statementNode()        {}

// WhereStmt filters or guards: over an Array scope it keeps only the
// elements for which Cond is truthy; over any other scope a falsy Cond
// stops the enclosing block, and at the top level the record's result
// becomes Null.
type WhereStmt struct {
	Position token.Position
	Cond     Expression
}

func (s *WhereStmt) Pos() token.Position { return s.Position }
func (*WhereStmt) statementNode()        {}

// SortDirection is ascending or descending ordering for SortStmt.
type SortDirection int

const (
	SortAsc SortDirection = iota
	SortDesc
)

// SortKey is one key expression of a SortStmt: the path each element is
// compared by, and the direction for that key.
type SortKey struct {
	Path      *PathExpr
	Direction SortDirection
}

// SortStmt requires the current scope to be an Array and stable-sorts it
// by its Keys in order, ties falling through to the next key:
// `sort .a asc, .b desc`. Sorting forces full materialization of a
// streamed input (spec §5).
type SortStmt struct {
	Position token.Position
	Keys     []SortKey
}

func (s *SortStmt) Pos() token.Position { return s.Position }
func (*SortStmt) statementNode()        {}

// EachStmt applies Body to every element of the array at Path, with each
// element as the new current scope in turn: `each .items { set .tax = ... }`.
type EachStmt struct {
	Position token.Position
	Path     *PathExpr
	Body     []Statement
}

func (s *EachStmt) Pos() token.Position { return s.Position }
func (*EachStmt) statementNode()        {}

// WhenStmt runs Body only if Cond is truthy against the current scope:
// `when .active == true { set .tier = "gold" }`.
type WhenStmt struct {
	Position token.Position
	Cond     Expression
	Body     []Statement
}

func (s *WhenStmt) Pos() token.Position { return s.Position }
func (*WhenStmt) statementNode()        {}

package parser

import (
	"fmt"

	"github.com/morphcli/morph/internal/token"
)

// Error is a structured parse error with position and an error-code tag
// for programmatic handling, matching the teacher's ParserError
// (internal/parser/error.go in go-dws).
type Error struct {
	Message string
	Code    string
	Pos     token.Position
	Hint    string
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s at %d:%d (did you mean %s?)", e.Message, e.Pos.Line, e.Pos.Column, e.Hint)
	}
	return fmt.Sprintf("%s at %d:%d", e.Message, e.Pos.Line, e.Pos.Column)
}

func newError(pos token.Position, code, message string) *Error {
	return &Error{Message: message, Pos: pos, Code: code}
}

// Error code constants, following the teacher's E_-prefixed taxonomy.
const (
	ErrUnexpectedToken   = "E_UNEXPECTED_TOKEN"
	ErrExpectedStatement = "E_EXPECTED_STATEMENT"
	ErrMissingLParen     = "E_MISSING_LPAREN"
	ErrMissingRParen     = "E_MISSING_RPAREN"
	ErrMissingRBracket   = "E_MISSING_RBRACKET"
	ErrMissingRBrace     = "E_MISSING_RBRACE"
	ErrMissingArrow      = "E_MISSING_ARROW"
	ErrMissingAssign     = "E_MISSING_ASSIGN"
	ErrInvalidExpression = "E_INVALID_EXPRESSION"
	ErrNoPrefixParse     = "E_NO_PREFIX_PARSE"
	ErrExpectedIdent     = "E_EXPECTED_IDENT"
	ErrExpectedPath      = "E_EXPECTED_PATH"
	ErrUnknownFunction   = "E_UNKNOWN_FUNCTION"
	ErrUnknownCastTarget = "E_UNKNOWN_CAST_TARGET"
	ErrWrongArity        = "E_WRONG_ARITY"
)

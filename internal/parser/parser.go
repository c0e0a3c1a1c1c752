// Package parser implements a precedence-climbing recursive-descent
// parser for the mapping language (spec §4.2), turning a token stream
// into an *ast.Program. The prefix/infix parse function maps, the
// precedence table, and the peek/expectPeek helpers follow the teacher's
// Pratt parser (internal/parser/parser.go in go-dws); the statement
// grammar itself is new, since DWScript has no equivalent.
package parser

import (
	"fmt"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/builtins"
	"github.com/morphcli/morph/internal/diag"
	"github.com/morphcli/morph/internal/lexer"
	"github.com/morphcli/morph/internal/token"
)

// Precedence levels, lowest to highest, matching the order spec.md §4.2
// lays out: `or` · `and` · `not` (unary) · comparisons · additive ·
// multiplicative · unary minus · primary. NOT sits below EQUALS/
// LESSGREATER so `not a == b` parses as `not (a == b)`, not `(not a) == b`
// — unlike PREFIX (unary minus), which binds tighter than everything but a
// call.
const (
	_ int = iota
	LOWEST
	OR
	AND
	NOT
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[token.Type]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LT_EQ:    LESSGREATER,
	token.GT:       LESSGREATER,
	token.GT_EQ:    LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser turns a token stream into an AST, accumulating errors instead of
// panicking (spec §7 ParseError).
type Parser struct {
	l       *lexer.Lexer
	errors  []*Error
	curTok  token.Token
	peekTok token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New builds a Parser over l, priming the two-token lookahead window.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.DOT:      p.parsePath,
		token.INT:      p.parseIntLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolLiteral,
		token.FALSE:    p.parseBoolLiteral,
		token.NULL:     p.parseNullLiteral,
		token.LBRACK:   p.parseArrayLiteral,
		token.LPAREN:   p.parseGroupedExpr,
		token.MINUS:    p.parseUnaryExpr,
		token.NOT:      p.parseUnaryExpr,
		token.IDENT:    p.parseIdentOrCall,
	}
	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseBinaryExpr,
		token.MINUS:    p.parseBinaryExpr,
		token.ASTERISK: p.parseBinaryExpr,
		token.SLASH:    p.parseBinaryExpr,
		token.PERCENT:  p.parseBinaryExpr,
		token.EQ:       p.parseBinaryExpr,
		token.NOT_EQ:   p.parseBinaryExpr,
		token.LT:       p.parseBinaryExpr,
		token.LT_EQ:    p.parseBinaryExpr,
		token.GT:       p.parseBinaryExpr,
		token.GT_EQ:    p.parseBinaryExpr,
		token.AND:      p.parseBinaryExpr,
		token.OR:       p.parseBinaryExpr,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []*Error { return p.errors }

// LexerErrors returns every lexical error accumulated by the underlying
// lexer, which should be surfaced alongside parse errors.
func (p *Parser) LexerErrors() []lexer.Error { return p.l.Errors() }

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curTok.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekTok.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(want token.Type) {
	p.errors = append(p.errors, newError(p.peekTok.Pos, ErrUnexpectedToken,
		fmt.Sprintf("expected next token to be %s, got %s (%q) instead", want, p.peekTok.Type, p.peekTok.Literal)))
}

func (p *Parser) addErrorf(pos token.Position, code, format string, args ...interface{}) {
	p.errors = append(p.errors, newError(pos, code, fmt.Sprintf(format, args...)))
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curTok.Type]; ok {
		return pr
	}
	return LOWEST
}

// skipStatementTerminators consumes any run of ';'/newline tokens.
func (p *Parser) skipStatementTerminators() {
	for p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the whole token stream into a Program, accumulating
// errors for every malformed statement while still attempting to parse
// the rest (spec §7: diagnostics should not stop at the first problem
// when avoidable).
func ParseProgram(l *lexer.Lexer) (*ast.Program, []*Error, []lexer.Error) {
	p := New(l)
	prog := &ast.Program{}
	p.skipStatementTerminators()
	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipStatementTerminators()
	}
	return prog, p.errors, p.l.Errors()
}

func (p *Parser) parseBlock() []ast.Statement {
	var stmts []ast.Statement
	if !p.expectPeek(token.LBRACE) {
		return stmts
	}
	p.nextToken()
	p.skipStatementTerminators()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipStatementTerminators()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.addErrorf(p.curTok.Pos, ErrMissingRBrace, "expected '}' to close block, got %s", p.curTok.Type)
		return stmts
	}
	return stmts
}

func (p *Parser) parsePathList() []*ast.PathExpr {
	var paths []*ast.PathExpr
	if !p.expectPeek(token.DOT) {
		return paths
	}
	paths = append(paths, p.parsePath().(*ast.PathExpr))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.DOT) {
			break
		}
		paths = append(paths, p.parsePath().(*ast.PathExpr))
	}
	return paths
}

// suggestIdent offers a "did you mean?" hint for a misspelled keyword or
// built-in function name (spec §4.2, §7).
func suggestIdent(name string) string {
	candidates := append([]string{}, token.Keywords()...)
	candidates = append(candidates, builtins.Names()...)
	return diag.Suggest(name, candidates, 2)
}

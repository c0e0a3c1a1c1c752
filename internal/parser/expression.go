package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/builtins"
	"github.com/morphcli/morph/internal/lexer"
	"github.com/morphcli/morph/internal/token"
)

// parseExpression is the precedence-climbing core: parse a prefix
// expression, then keep absorbing infix operators whose precedence
// exceeds minPrecedence.
func (p *Parser) parseExpression(minPrecedence int) ast.Expression {
	prefix, ok := p.prefixParseFns[p.curTok.Type]
	if !ok {
		hint := ""
		if p.curTok.Type == token.IDENT {
			hint = suggestIdent(p.curTok.Literal)
		}
		err := newError(p.curTok.Pos, ErrNoPrefixParse, "unexpected token in expression: "+p.curTok.Type.String())
		err.Hint = hint
		p.errors = append(p.errors, err)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && minPrecedence < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peekTok.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIntLiteral() ast.Expression {
	n, err := strconv.ParseInt(p.curTok.Literal, 10, 64)
	if err != nil {
		p.addErrorf(p.curTok.Pos, ErrInvalidExpression, "invalid integer literal %q", p.curTok.Literal)
		return nil
	}
	return &ast.Literal{Position: p.curTok.Pos, Kind: ast.LitInt, IntVal: n}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	f, err := strconv.ParseFloat(p.curTok.Literal, 64)
	if err != nil {
		p.addErrorf(p.curTok.Pos, ErrInvalidExpression, "invalid float literal %q", p.curTok.Literal)
		return nil
	}
	return &ast.Literal{Position: p.curTok.Pos, Kind: ast.LitFloat, FloatVal: f}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.Literal{Position: p.curTok.Pos, Kind: ast.LitBool, BoolVal: p.curTok.Type == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.Literal{Position: p.curTok.Pos, Kind: ast.LitNull}
}

// parseStringLiteral splits the token's text into literal runs and
// embedded `{expr}` expressions (spec §4.1). A literal with no embedded
// expression collapses to a plain string Literal.
func (p *Parser) parseStringLiteral() ast.Expression {
	pos := p.curTok.Pos
	raw := p.curTok.Literal

	parts, hasExpr, err := splitInterpolation(raw)
	if err != nil {
		p.addErrorf(pos, ErrInvalidExpression, "malformed string interpolation: %s", err.Error())
		return &ast.Literal{Position: pos, Kind: ast.LitString, StrVal: raw}
	}
	if !hasExpr {
		var sb strings.Builder
		for _, part := range parts {
			sb.WriteString(part.Literal)
		}
		return &ast.Literal{Position: pos, Kind: ast.LitString, StrVal: sb.String()}
	}

	out := &ast.Interpolation{Position: pos}
	for _, part := range parts {
		if !part.hasExprSrc {
			out.Parts = append(out.Parts, ast.InterpolationPart{Literal: part.Literal})
			continue
		}
		expr := parseSubExpression(part.Expr)
		if expr == nil {
			p.addErrorf(pos, ErrInvalidExpression, "invalid expression in string interpolation: %q", part.Expr)
			continue
		}
		out.Parts = append(out.Parts, ast.InterpolationPart{Expr: expr})
	}
	return out
}

// rawPart is an intermediate representation used only while splitting a
// string literal's text into literal runs and embedded expression source.
type rawPart struct {
	Literal    string
	Expr       string
	hasExprSrc bool
}

// splitInterpolation scans raw (a lexer-decoded string literal body) for
// `{expr}` runs. LiteralOpenBrace/LiteralCloseBrace sentinels (written by
// the lexer for an escaped `{{`/`}}`) are translated back to literal
// brace characters rather than treated as interpolation delimiters.
func splitInterpolation(raw string) ([]rawPart, bool, error) {
	var parts []rawPart
	var lit strings.Builder
	hasExpr := false

	runes := []rune(raw)
	i := 0
	flushLiteral := func() {
		if lit.Len() > 0 {
			parts = append(parts, rawPart{Literal: lit.String()})
			lit.Reset()
		}
	}

	for i < len(runes) {
		switch runes[i] {
		case lexer.LiteralOpenBrace:
			lit.WriteByte('{')
			i++
		case lexer.LiteralCloseBrace:
			lit.WriteByte('}')
			i++
		case '{':
			depth := 1
			start := i + 1
			j := start
			for j < len(runes) && depth > 0 {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				j++
			}
			if depth != 0 {
				return nil, false, errUnterminatedInterpolation
			}
			flushLiteral()
			parts = append(parts, rawPart{Expr: string(runes[start:j]), hasExprSrc: true})
			hasExpr = true
			i = j + 1
		default:
			lit.WriteRune(runes[i])
			i++
		}
	}
	flushLiteral()
	return parts, hasExpr, nil
}

var errUnterminatedInterpolation = fmtErrorUnterminated()

func fmtErrorUnterminated() error {
	return &Error{Message: "unterminated '{' in string interpolation", Code: ErrInvalidExpression}
}

// parseSubExpression parses a standalone expression (the inside of a
// `{...}` interpolation) using a fresh lexer/parser pair.
func parseSubExpression(src string) ast.Expression {
	l := lexer.New(src)
	p := New(l)
	return p.parseExpression(LOWEST)
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{Position: p.curTok.Pos}
	if p.peekTokenIs(token.RBRACK) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACK) {
		return nil
	}
	return lit
}

func (p *Parser) parseGroupedExpr() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	pos := p.curTok.Pos
	op := ast.OpNeg
	prec := PREFIX
	if p.curTok.Type == token.NOT {
		op = ast.OpNot
		prec = NOT
	}
	p.nextToken()
	operand := p.parseExpression(prec)
	return &ast.UnaryExpr{Position: pos, Op: op, Operand: operand}
}

// parseIdentOrCall handles a bare function call: `name(arg, arg, ...)`.
// Mapping-language expressions have no bare identifiers otherwise (every
// value reference goes through a path), so an IDENT not followed by '('
// is a parse error.
func (p *Parser) parseIdentOrCall() ast.Expression {
	name := p.curTok.Literal
	pos := p.curTok.Pos
	if !p.peekTokenIs(token.LPAREN) {
		hint := suggestIdent(name)
		err := newError(pos, ErrUnknownFunction, "expected function call, got bare identifier "+name)
		err.Hint = hint
		p.errors = append(p.errors, err)
		return nil
	}
	p.nextToken() // consume '('
	call := &ast.CallExpr{Position: pos, Name: name}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		p.checkCallArity(call)
		return call
	}
	p.nextToken()
	call.Args = append(call.Args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		call.Args = append(call.Args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.checkCallArity(call)
	return call
}

// checkCallArity resolves name against the built-in registry at parse time
// (spec §4.6: "unknown names raise ParseError with Levenshtein suggestion")
// and validates the argument count against its declared signature, the same
// check `--dry-run` relies on to validate a mapping without touching input
// data (spec §6.4).
func (p *Parser) checkCallArity(call *ast.CallExpr) {
	sig, ok := builtins.Lookup(call.Name)
	if !ok {
		err := newError(call.Position, ErrUnknownFunction, fmt.Sprintf("unknown function %s", call.Name))
		err.Hint = suggestIdent(call.Name)
		p.errors = append(p.errors, err)
		return
	}
	n := len(call.Args)
	if n < sig.MinArgs || (sig.MaxArgs >= 0 && n > sig.MaxArgs) {
		p.errors = append(p.errors, newError(call.Position, ErrWrongArity, builtins.ArityMessage(sig, n)))
	}
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:     ast.OpAdd,
	token.MINUS:    ast.OpSub,
	token.ASTERISK: ast.OpMul,
	token.SLASH:    ast.OpDiv,
	token.PERCENT:  ast.OpMod,
	token.EQ:       ast.OpEq,
	token.NOT_EQ:   ast.OpNotEq,
	token.LT:       ast.OpLt,
	token.LT_EQ:    ast.OpLtEq,
	token.GT:       ast.OpGt,
	token.GT_EQ:    ast.OpGtEq,
	token.AND:      ast.OpAnd,
	token.OR:       ast.OpOr,
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	pos := p.curTok.Pos
	op := binaryOps[p.curTok.Type]
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
}

// parsePath parses a path expression starting at the current '.' token
// (spec §3.2), reconstructing a canonical textual form that
// internal/uvpath.Parse can re-parse directly.
func (p *Parser) parsePath() ast.Expression {
	pos := p.curTok.Pos
	var sb strings.Builder
	sb.WriteByte('.')

	for {
		if p.peekTokenIs(token.IDENT) {
			p.nextToken()
			sb.WriteString(p.curTok.Literal)
		}

		for p.peekTokenIs(token.LBRACK) {
			p.nextToken() // consume '['
			switch {
			case p.peekTokenIs(token.ASTERISK):
				p.nextToken()
				sb.WriteString("[*]")
			case p.peekTokenIs(token.MINUS):
				p.nextToken()
				if !p.expectPeek(token.INT) {
					return nil
				}
				sb.WriteString("[-" + p.curTok.Literal + "]")
			case p.peekTokenIs(token.INT):
				p.nextToken()
				sb.WriteString("[" + p.curTok.Literal + "]")
			case p.peekTokenIs(token.STRING):
				p.nextToken()
				sb.WriteString("[\"" + strings.ReplaceAll(p.curTok.Literal, `"`, `\"`) + "\"]")
			default:
				p.addErrorf(p.peekTok.Pos, ErrExpectedPath, "expected an index, '*', or quoted field inside '[...]', got %s", p.peekTok.Type)
				return nil
			}
			if !p.expectPeek(token.RBRACK) {
				return nil
			}
		}

		if p.peekTokenIs(token.DOT) {
			p.nextToken()
			sb.WriteByte('.')
			continue
		}
		break
	}

	return &ast.PathExpr{Position: pos, Raw: sb.String()}
}

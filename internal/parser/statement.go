package parser

import (
	"fmt"

	"github.com/morphcli/morph/internal/ast"
	"github.com/morphcli/morph/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok.Type {
	case token.RENAME:
		return p.parseRenameStmt()
	case token.SELECT:
		return p.parseSelectStmt()
	case token.DROP:
		return p.parseDropStmt()
	case token.FLATTEN:
		return p.parseFlattenStmt()
	case token.NEST:
		return p.parseNestStmt()
	case token.SET:
		return p.parseSetStmt()
	case token.DEFAULT:
		return p.parseDefaultStmt()
	case token.CAST:
		return p.parseCastStmt()
	case token.WHERE:
		return p.parseWhereStmt()
	case token.SORT:
		return p.parseSortStmt()
	case token.EACH:
		return p.parseEachStmt()
	case token.WHEN:
		return p.parseWhenStmt()
	default:
		pos := p.curTok.Pos
		hint := ""
		if p.curTok.Type == token.IDENT {
			hint = suggestIdent(p.curTok.Literal)
		}
		msg := fmt.Sprintf("expected a statement keyword, got %s (%q)", p.curTok.Type, p.curTok.Literal)
		err := newError(pos, ErrExpectedStatement, msg)
		err.Hint = hint
		p.errors = append(p.errors, err)
		p.nextToken()
		return nil
	}
}

// rename .old -> new
func (p *Parser) parseRenameStmt() ast.Statement {
	stmt := &ast.RenameStmt{Position: p.curTok.Pos}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	stmt.From = p.parsePath().(*ast.PathExpr)
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	to, ok := p.parseTargetName()
	if !ok {
		return nil
	}
	stmt.To = to
	return stmt
}

// parseTargetName parses the field named after `->` in rename and nest:
// either a bare name (`new`) or a single-field path (`.new`).
func (p *Parser) parseTargetName() (string, bool) {
	if p.peekTokenIs(token.DOT) {
		p.nextToken()
	}
	if !p.expectPeek(token.IDENT) {
		return "", false
	}
	return p.curTok.Literal, true
}

// select .a, .b.c
func (p *Parser) parseSelectStmt() ast.Statement {
	pos := p.curTok.Pos
	paths := p.parsePathList()
	return &ast.SelectStmt{Position: pos, Paths: paths}
}

// drop .a, .b
func (p *Parser) parseDropStmt() ast.Statement {
	pos := p.curTok.Pos
	paths := p.parsePathList()
	return &ast.DropStmt{Position: pos, Paths: paths}
}

// flatten .address [-> prefix "addr_"] [-> .city, .zip]
func (p *Parser) parseFlattenStmt() ast.Statement {
	stmt := &ast.FlattenStmt{Position: p.curTok.Pos}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	stmt.Path = p.parsePath().(*ast.PathExpr)

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		if p.peekTokenIs(token.PREFIX) {
			p.nextToken()
			if !p.expectPeek(token.STRING) {
				return nil
			}
			stmt.Prefix = p.curTok.Literal
			stmt.HasPrefix = true
		} else {
			stmt.Targets = p.parsePathList()
		}
	}
	if stmt.Targets == nil && p.peekTokenIs(token.ARROW) {
		p.nextToken()
		stmt.Targets = p.parsePathList()
	}
	return stmt
}

// nest .street, .city -> address
func (p *Parser) parseNestStmt() ast.Statement {
	pos := p.curTok.Pos
	paths := p.parsePathList()
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	name, ok := p.parseTargetName()
	if !ok {
		return nil
	}
	return &ast.NestStmt{Position: pos, Paths: paths, Name: name}
}

// set .total = .price * .qty
func (p *Parser) parseSetStmt() ast.Statement {
	stmt := &ast.SetStmt{Position: p.curTok.Pos}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	stmt.Path = p.parsePath().(*ast.PathExpr)
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

// default .status = "unknown"
func (p *Parser) parseDefaultStmt() ast.Statement {
	stmt := &ast.DefaultStmt{Position: p.curTok.Pos}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	stmt.Path = p.parsePath().(*ast.PathExpr)
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

// cast .id as string
func (p *Parser) parseCastStmt() ast.Statement {
	stmt := &ast.CastStmt{Position: p.curTok.Pos}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	stmt.Path = p.parsePath().(*ast.PathExpr)
	if !p.expectPeek(token.AS) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	switch p.curTok.Literal {
	case "int":
		stmt.Target = ast.CastInt
	case "float":
		stmt.Target = ast.CastFloat
	case "bool":
		stmt.Target = ast.CastBool
	case "string":
		stmt.Target = ast.CastString
	default:
		p.addErrorf(p.curTok.Pos, ErrUnknownCastTarget, "unknown cast target %q (expected int, float, bool, or string)", p.curTok.Literal)
		return nil
	}
	return stmt
}

// where .active == true
func (p *Parser) parseWhereStmt() ast.Statement {
	pos := p.curTok.Pos
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	return &ast.WhereStmt{Position: pos, Cond: cond}
}

// sort .a asc, .b desc
func (p *Parser) parseSortStmt() ast.Statement {
	stmt := &ast.SortStmt{Position: p.curTok.Pos}
	key, ok := p.parseSortKey()
	if !ok {
		return nil
	}
	stmt.Keys = append(stmt.Keys, key)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		key, ok := p.parseSortKey()
		if !ok {
			return nil
		}
		stmt.Keys = append(stmt.Keys, key)
	}
	return stmt
}

// parseSortKey parses one `<path> [asc|desc]` key of a sort statement,
// defaulting to ascending order when no direction keyword is given.
func (p *Parser) parseSortKey() (ast.SortKey, bool) {
	if !p.expectPeek(token.DOT) {
		return ast.SortKey{}, false
	}
	key := ast.SortKey{Path: p.parsePath().(*ast.PathExpr), Direction: ast.SortAsc}
	if p.peekTokenIs(token.ASC) {
		p.nextToken()
		key.Direction = ast.SortAsc
	} else if p.peekTokenIs(token.DESC) {
		p.nextToken()
		key.Direction = ast.SortDesc
	}
	return key, true
}

// each .items { <statements> }
func (p *Parser) parseEachStmt() ast.Statement {
	stmt := &ast.EachStmt{Position: p.curTok.Pos}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	stmt.Path = p.parsePath().(*ast.PathExpr)
	stmt.Body = p.parseBlock()
	return stmt
}

// when .active == true { <statements> }
func (p *Parser) parseWhenStmt() ast.Statement {
	stmt := &ast.WhenStmt{Position: p.curTok.Pos}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	stmt.Body = p.parseBlock()
	return stmt
}

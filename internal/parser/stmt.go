package parser

import (
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

// block := '{' stmt* '}'
func (p *Parser) parseBlock() ([]ast.Stmt, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open function body"); !ok {
		return nil, false
	}
	var stmts []ast.Stmt
	for !p.atOr(token.RBrace, token.EOF) {
		st, ok := p.parseStmt()
		if !ok {
			p.resyncStmt()
			continue
		}
		stmts = append(stmts, st)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close function body"); !ok {
		return stmts, false
	}
	return stmts, true
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	start := p.peek().Span
	if p.at(token.KwLet) {
		p.advance()
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		ty, align, ok := p.parseTypeAnnotation()
		if !ok {
			return nil, false
		}
		if !p.expectSemicolon() {
			return nil, false
		}
		return &ast.LetStmt{Span: start.Cover(p.lastSpan), Name: name.Text, Type: ty, Align: align}, true
	}

	e, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.expectSemicolon() {
		return nil, false
	}
	return &ast.ExprStmt{Span: start.Cover(p.lastSpan), Expr: e}, true
}

// resyncStmt прокручивает до ';' (съедая его) или до '}' (не съедая).
func (p *Parser) resyncStmt() {
	for !p.atOr(token.EOF, token.RBrace) {
		if p.advance().Kind == token.Semicolon {
			return
		}
	}
}

package parser

import (
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

// target := 'target' Ident ';'
func (p *Parser) parseTarget() (ast.Item, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if !p.expectSemicolon() {
		return nil, false
	}
	return &ast.TargetDecl{Span: kw.Span.Cover(p.lastSpan), Name: name.Text}, true
}

// struct := 'struct' Ident ( ';' | '{' member* '}' )
func (p *Parser) parseStruct() (ast.Item, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	decl := &ast.StructDecl{Name: name.Text, NameSpan: name.Span}
	if p.at(token.Semicolon) {
		p.advance()
		decl.Incomplete = true
		decl.Span = kw.Span.Cover(p.lastSpan)
		return decl, true
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' or ';' after struct name"); !ok {
		return nil, false
	}
	for !p.atOr(token.RBrace, token.EOF) {
		if !p.parseMember(decl) {
			p.resyncStmt()
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close struct "+decl.Name); !ok {
		return nil, false
	}
	decl.Span = kw.Span.Cover(p.lastSpan)
	return decl, true
}

// member := ['virtual'] 'fn' Ident '(' ')' ';' | align? Ident ':' align? type ';'
func (p *Parser) parseMember(decl *ast.StructDecl) bool {
	start := p.peek().Span
	if p.atOr(token.KwVirtual, token.KwFn) {
		virtual := false
		if p.at(token.KwVirtual) {
			p.advance()
			virtual = true
		}
		if _, ok := p.expect(token.KwFn, diag.SynUnexpectedToken, "expected 'fn' after 'virtual'"); !ok {
			return false
		}
		name, ok := p.parseIdent()
		if !ok {
			return false
		}
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
			return false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return false
		}
		if !p.expectSemicolon() {
			return false
		}
		decl.Methods = append(decl.Methods, ast.MethodDecl{Span: start.Cover(p.lastSpan), Name: name.Text, Virtual: virtual})
		return true
	}

	align, ok := p.parseOptAlign()
	if !ok {
		return false
	}
	name, ok := p.parseIdent()
	if !ok {
		return false
	}
	ty, inner, ok := p.parseTypeAnnotation()
	if !ok {
		return false
	}
	if !p.expectSemicolon() {
		return false
	}
	if align == nil {
		align = inner
	}
	decl.Fields = append(decl.Fields, ast.FieldDecl{Span: start.Cover(p.lastSpan), Name: name.Text, Type: ty, Align: align})
	return true
}

// instantiate := 'instantiate' Ident '<' genarg (',' genarg)* '>' ';'
func (p *Parser) parseInstantiate() (ast.Item, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	decl := &ast.InstantiateDecl{Name: name.Text}
	if _, ok := p.expect(token.Lt, diag.SynUnexpectedToken, "expected '<' after template name"); !ok {
		return nil, false
	}
	for !p.atOr(token.Gt, token.EOF) {
		arg, ok := p.parseGenericArg()
		if !ok {
			return nil, false
		}
		decl.Args = append(decl.Args, arg)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>'"); !ok {
		return nil, false
	}
	if !p.expectSemicolon() {
		return nil, false
	}
	decl.Span = kw.Span.Cover(p.lastSpan)
	return decl, true
}

func (p *Parser) parseGenericArg() (ast.GenericArg, bool) {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.IntLit, token.Minus, token.KwSizeof, token.KwAlignof, token.KwTrue, token.KwFalse:
		v, ok := p.parseExpr()
		return ast.GenericArg{Span: start.Cover(p.lastSpan), Value: v}, ok
	default:
		t, ok := p.parseType()
		return ast.GenericArg{Span: start.Cover(p.lastSpan), Type: t}, ok
	}
}

package parser

import (
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

// fn := 'fn' Ident generics? '(' params? ')' block
func (p *Parser) parseFn() (ast.Item, bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	decl := &ast.FnDecl{Name: name.Text, NameSpan: name.Span}

	if p.at(token.Lt) {
		p.advance()
		for !p.atOr(token.Gt, token.EOF) {
			gp, ok := p.parseGenericParam()
			if !ok {
				return nil, false
			}
			decl.Generics = append(decl.Generics, gp)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if _, ok := p.expect(token.Gt, diag.SynUnclosedDelimiter, "expected '>' to close generic parameters"); !ok {
			return nil, false
		}
	}

	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		return nil, false
	}
	for !p.atOr(token.RParen, token.EOF) {
		start := p.peek().Span
		pname, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		ty, align, ok := p.parseTypeAnnotation()
		if !ok {
			return nil, false
		}
		decl.Params = append(decl.Params, ast.Param{Span: start.Cover(p.lastSpan), Name: pname.Text, Type: ty, Align: align})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close parameter list"); !ok {
		return nil, false
	}

	body, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	decl.Body = body
	decl.Span = kw.Span.Cover(p.lastSpan)
	return decl, true
}

// generic := Ident [':' type]
func (p *Parser) parseGenericParam() (ast.GenericParam, bool) {
	name, ok := p.parseIdent()
	if !ok {
		return ast.GenericParam{}, false
	}
	gp := ast.GenericParam{Span: name.Span, Name: name.Text}
	if p.at(token.Colon) {
		p.advance()
		kind, ok := p.parseType()
		if !ok {
			return gp, false
		}
		gp.Kind = kind
		gp.Span = name.Span.Cover(p.lastSpan)
	}
	return gp, true
}

// parseTypeAnnotation parses ':' align? type.
func (p *Parser) parseTypeAnnotation() (ast.TypeID, *ast.AlignAttr, bool) {
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' before type"); !ok {
		return ast.NoTypeID, nil, false
	}
	align, ok := p.parseOptAlign()
	if !ok {
		return ast.NoTypeID, nil, false
	}
	ty, ok := p.parseType()
	return ty, align, ok
}

// align := '@' 'align' '(' (expr | type) ')'
func (p *Parser) parseOptAlign() (*ast.AlignAttr, bool) {
	if !p.at(token.At) {
		return nil, true
	}
	at := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if name.Text != "align" {
		p.report(diag.SynAttributeNotAllowed, diag.SevError, name.Span, "unknown attribute @"+name.Text)
		return nil, false
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after @align"); !ok {
		return nil, false
	}
	attr := &ast.AlignAttr{}
	if p.atOr(token.IntLit, token.Minus, token.KwSizeof, token.KwAlignof) {
		v, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		attr.Value = v
	} else {
		t, ok := p.parseType()
		if !ok {
			return nil, false
		}
		attr.Type = t
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close @align"); !ok {
		return nil, false
	}
	attr.Span = at.Span.Cover(p.lastSpan)
	return attr, true
}

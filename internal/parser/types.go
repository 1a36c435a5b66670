package parser

import (
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

// type := '*' type | Ident ('[' expr ']')*
func (p *Parser) parseType() (ast.TypeID, bool) {
	start := p.peek().Span
	if p.at(token.Star) {
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypePointer, Span: start.Cover(p.lastSpan), Elem: elem}), true
	}
	name, ok := p.expect(token.Ident, diag.SynExpectType, "expected type, got \""+p.peek().Text+"\"")
	if !ok {
		return ast.NoTypeID, false
	}
	id := p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeName, Span: name.Span, Name: name.Text})
	for p.at(token.LBracket) {
		p.advance()
		n, ok := p.parseExpr()
		if !ok {
			return ast.NoTypeID, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']'"); !ok {
			return ast.NoTypeID, false
		}
		id = p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeArray, Span: start.Cover(p.lastSpan), Elem: id, Len: n})
	}
	return id, true
}

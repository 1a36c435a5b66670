package parser

import (
	"strconv"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseUnary()
}

// unary := ('&' | '*' | '-') unary | primary
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var kind ast.ExprKind
	switch p.peek().Kind {
	case token.Amp:
		kind = ast.ExprAddrOf
	case token.Star:
		kind = ast.ExprDeref
	case token.Minus:
		kind = ast.ExprNeg
	default:
		return p.parsePrimary()
	}
	op := p.advance()
	inner, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.New(ast.Expr{Kind: kind, Span: op.Span.Cover(p.lastSpan), Operand: inner}), true
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 0, 64)
		if err != nil {
			p.report(diag.LexBadNumber, diag.SevError, tok.Span, "integer literal out of range: "+tok.Text)
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ExprIntLit, Span: tok.Span, Text: tok.Text, Value: v}), true

	case token.StringLit:
		p.advance()
		s, err := strconv.Unquote(tok.Text)
		if err != nil {
			p.report(diag.LexUnterminatedString, diag.SevError, tok.Span, "invalid escape in string literal")
			return ast.NoExprID, false
		}
		// длина включает завершающий NUL, как у C-массива
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ExprStringLit, Span: tok.Span, Text: tok.Text, Value: int64(len(s)) + 1}), true

	case token.KwTrue, token.KwFalse:
		p.advance()
		var v int64
		if tok.Kind == token.KwTrue {
			v = 1
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ExprBoolLit, Span: tok.Span, Text: tok.Text, Value: v}), true

	case token.KwSizeof, token.KwAlignof:
		return p.parseSizeof()

	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return inner, true

	case token.Ident:
		p.advance()
		if p.at(token.ColonColon) {
			p.advance()
			member, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.New(ast.Expr{Kind: ast.ExprMemberRef, Span: tok.Span.Cover(member.Span), Owner: tok.Text, Name: member.Text}), true
		}
		if p.at(token.LParen) {
			return p.parseCallArgs(tok)
		}
		return p.arenas.Exprs.New(ast.Expr{Kind: ast.ExprIdent, Span: tok.Span, Name: tok.Text}), true
	}

	p.err(diag.SynExpectExpression, "expected expression, got \""+tok.Text+"\"")
	return ast.NoExprID, false
}

func (p *Parser) parseCallArgs(callee token.Token) (ast.ExprID, bool) {
	p.advance() // '('
	var args []ast.ExprID
	for !p.atOr(token.RParen, token.EOF) {
		a, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		args = append(args, a)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close call to "+callee.Text); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.New(ast.Expr{Kind: ast.ExprCall, Span: callee.Span.Cover(p.lastSpan), Name: callee.Text, Args: args}), true
}

// parseSizeof parses sizeof(X) / alignof(X). X is taken as a type when it
// parses as one; `sizeof(x)` with a variable x is resolved later by sema.
func (p *Parser) parseSizeof() (ast.ExprID, bool) {
	kw := p.advance()
	kind := ast.ExprSizeof
	if kw.Kind == token.KwAlignof {
		kind = ast.ExprAlignof
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+kw.Text); !ok {
		return ast.NoExprID, false
	}
	x := ast.Expr{Kind: kind}
	if !p.speculate(func() bool {
		t, ok := p.parseType()
		x.Type = t
		return ok && p.at(token.RParen)
	}) {
		x.Type = ast.NoTypeID
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		x.Operand = inner
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close "+kw.Text); !ok {
		return ast.NoExprID, false
	}
	x.Span = kw.Span.Cover(p.lastSpan)
	return p.arenas.Exprs.New(x), true
}

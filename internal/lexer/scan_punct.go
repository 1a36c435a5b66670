package lexer

import (
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

var singlePunct = map[byte]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
	'*': token.Star,
	'&': token.Amp,
	'-': token.Minus,
	'@': token.At,
	'<': token.Lt,
	'>': token.Gt,
	'.': token.Dot,
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()

	if b == ':' {
		kind := token.Colon
		if lx.cursor.Eat(':') {
			kind = token.ColonColon
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
	}
	if kind, ok := singlePunct[b]; ok {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
	}

	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnknownChar, sp, "unexpected character "+lx.text(sp))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

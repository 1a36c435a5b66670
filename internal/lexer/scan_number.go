package lexer

import (
	"tagcopy/internal/diag"
	"tagcopy/internal/token"
)

// scanNumber handles 123, 1_000, 0x1F and 0b1010. Digit separators are kept
// in Text; the parser strips them.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digit := isDec
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x', 'X':
			digit = isHex
			lx.cursor.Bump()
			lx.cursor.Bump()
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
			lx.cursor.Bump()
			lx.cursor.Bump()
		}
	}

	digits := 0
	for {
		b := lx.cursor.Peek()
		if b == '_' {
			lx.cursor.Bump()
			continue
		}
		if !digit(b) {
			break
		}
		lx.cursor.Bump()
		digits++
	}

	// хвост вида 12abc - плохое число, съедаем его целиком
	bad := digits == 0
	for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
		bad = true
	}

	sp := lx.cursor.SpanFrom(start)
	if bad {
		lx.report(diag.LexBadNumber, sp, "malformed integer literal "+lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
}

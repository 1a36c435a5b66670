package token

import "tagcopy/internal/source"

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is an integer, boolean or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwTarget && t.Kind <= KwFalse
}

// IsPunct reports whether the token is punctuation or an operator.
func (t Token) IsPunct() bool {
	return t.Kind >= LParen && t.Kind <= Dot
}

func (t Token) IsIdent() bool { return t.Kind == Ident }

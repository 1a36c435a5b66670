package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is a decimal, hex or binary integer literal.
	IntLit
	// StringLit is a double-quoted string literal including the quotes.
	StringLit

	KwTarget      // target
	KwStruct      // struct
	KwFn          // fn
	KwLet         // let
	KwInstantiate // instantiate
	KwVirtual     // virtual
	KwSizeof      // sizeof
	KwAlignof     // alignof
	KwTrue        // true
	KwFalse       // false

	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Semicolon  // ;
	Colon      // :
	ColonColon // ::
	Comma      // ,
	Star       // *
	Amp        // &
	Minus      // -
	At         // @
	Lt         // <
	Gt         // >
	Dot        // .
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	IntLit:        "IntLit",
	StringLit:     "StringLit",
	KwTarget:      "KwTarget",
	KwStruct:      "KwStruct",
	KwFn:          "KwFn",
	KwLet:         "KwLet",
	KwInstantiate: "KwInstantiate",
	KwVirtual:     "KwVirtual",
	KwSizeof:      "KwSizeof",
	KwAlignof:     "KwAlignof",
	KwTrue:        "KwTrue",
	KwFalse:       "KwFalse",
	LParen:        "LParen",
	RParen:        "RParen",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
	Semicolon:     "Semicolon",
	Colon:         "Colon",
	ColonColon:    "ColonColon",
	Comma:         "Comma",
	Star:          "Star",
	Amp:           "Amp",
	Minus:         "Minus",
	At:            "At",
	Lt:            "Lt",
	Gt:            "Gt",
	Dot:           "Dot",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

package token

var keywords = map[string]Kind{
	"target":      KwTarget,
	"struct":      KwStruct,
	"fn":          KwFn,
	"let":         KwLet,
	"instantiate": KwInstantiate,
	"virtual":     KwVirtual,
	"sizeof":      KwSizeof,
	"alignof":     KwAlignof,
	"true":        KwTrue,
	"false":       KwFalse,
}

// LookupKeyword returns the keyword kind for ident. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

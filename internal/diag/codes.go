package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Синтаксические
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedDelimiter   Code = 2002
	SynExpectSemicolon     Code = 2012
	SynAttributeNotAllowed Code = 2016
	SynUnexpectedTopLevel  Code = 2101
	SynExpectIdentifier    Code = 2102
	SynExpectType          Code = 2202
	SynExpectExpression    Code = 2203
	SynExpectColon         Code = 2204

	// Семантические
	SemaInfo                   Code = 3000
	SemaError                  Code = 3001
	SemaDuplicateSymbol        Code = 3002
	SemaUnresolvedSymbol       Code = 3005
	SemaTypeMismatch           Code = 3015
	SemaConstNotConstant       Code = 3026
	SemaAttrAlignNotPowerOfTwo Code = 3064 // @align(N) where N is not power of 2
	SemaAttrInvalidParameter   Code = 3073
	SemaRecursiveUnsized       Code = 3126

	// Memory transfer / alignment builtins (3200-3219)
	SemaIncompleteType        Code = 3200 // local of incomplete aggregate type
	SemaMemTransferOperand    Code = 3201 // memcpy/memmove operand is not a pointer
	SemaBuiltinArity          Code = 3202 // wrong number of builtin arguments
	SemaAlignOperandType      Code = 3203 // operand is not arithmetic or pointer
	SemaAlignNotPowerOfTwo    Code = 3204 // requested alignment is not a power of 2
	SemaAlignBelowOne         Code = 3205 // requested alignment < 1
	SemaAlignRedundant        Code = 3206 // alignment of one is a no-op
	SemaInstantiationMismatch Code = 3207 // generic arguments do not match parameters
	SemaUnknownTarget         Code = 3208
	SemaCopyOperand           Code = 3209 // copy() of a non-aggregate value

	IOLoadFileError Code = 4001

	ProjInfo            Code = 5000
	ProjInvalidManifest Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Codegen
	CgInfo               Code = 9000
	CgInefficientTagCopy Code = 9001 // underaligned destination for a tag-preserving copy
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectSemicolon:          "Expect semicolon",
	SynAttributeNotAllowed:      "Attribute not allowed here",
	SynUnexpectedTopLevel:       "Unexpected top level",
	SynExpectIdentifier:         "Expect identifier",
	SynExpectType:               "Expect type",
	SynExpectExpression:         "Expect expression",
	SynExpectColon:              "Expect colon",
	SemaInfo:                    "Semantic information",
	SemaError:                   "Semantic error",
	SemaDuplicateSymbol:         "Duplicate symbol",
	SemaUnresolvedSymbol:        "Unresolved symbol",
	SemaTypeMismatch:            "Type mismatch",
	SemaConstNotConstant:        "Expression is not a constant",
	SemaAttrAlignNotPowerOfTwo:  "@align argument must be a power of 2",
	SemaAttrInvalidParameter:    "Invalid attribute parameter",
	SemaRecursiveUnsized:        "Recursive value type has infinite size",
	SemaIncompleteType:          "Variable has incomplete type",
	SemaMemTransferOperand:      "Invalid memory transfer operand",
	SemaBuiltinArity:            "Wrong number of builtin arguments",
	SemaAlignOperandType:        "Alignment builtin operand must be arithmetic or pointer",
	SemaAlignNotPowerOfTwo:      "Requested alignment is not a power of 2",
	SemaAlignBelowOne:           "Requested alignment must be 1 or greater",
	SemaAlignRedundant:          "Alignment of one is redundant",
	SemaInstantiationMismatch:   "Generic arguments do not match parameters",
	SemaUnknownTarget:           "Unknown target",
	SemaCopyOperand:             "Invalid copy operand",
	IOLoadFileError:             "I/O load file error",
	ProjInfo:                    "Project information",
	ProjInvalidManifest:         "Invalid project manifest",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
	CgInfo:                      "Codegen information",
	CgInefficientTagCopy:        "Possibly inefficient or tag-stripping capability copy",
}

// codeFamilies maps each block of a thousand codes to its ID prefix and the
// phase that reports it.
var codeFamilies = []struct {
	base   int
	prefix string
	phase  string
}{
	{1000, "LEX", "lex"},
	{2000, "SYN", "syntax"},
	{3000, "SEM", "sema"},
	{4000, "IO", "io"},
	{5000, "PRJ", "project"},
	{6000, "OBS", "observability"},
	{9000, "CG", "codegen"},
}

func (c Code) family() (prefix, phase string, ok bool) {
	ic := int(c)
	for _, f := range codeFamilies {
		if ic >= f.base && ic < f.base+1000 {
			return f.prefix, f.phase, true
		}
	}
	return "", "", false
}

func (c Code) ID() string {
	prefix, _, ok := c.family()
	if !ok {
		return "E0000"
	}
	return fmt.Sprintf("%s%04d", prefix, int(c))
}

// Phase names the pipeline phase that owns the code, "unknown" otherwise.
func (c Code) Phase() string {
	if _, phase, ok := c.family(); ok {
		return phase
	}
	return "unknown"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

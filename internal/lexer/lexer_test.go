package lexer_test

import (
	"testing"

	"tagcopy/internal/diag"
	"tagcopy/internal/lexer"
	"tagcopy/internal/source"
	"tagcopy/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.cap", []byte(src))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx.All(), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexMemtransferCall(t *testing.T) {
	toks, bag := lexAll(t, `memmove(c, &ch, sizeof(ch));`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	want := []token.Kind{
		token.Ident, token.LParen, token.Ident, token.Comma, token.Amp, token.Ident, token.Comma,
		token.KwSizeof, token.LParen, token.Ident, token.RParen, token.RParen, token.Semicolon, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexPunctuationAndLiterals(t *testing.T) {
	toks, bag := lexAll(t, `is_aligned(&MemPtr::vfunc, 0x40); "a\"b" 1_024 @align(cap) T[16] <int, 7>`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	var texts []string
	for _, tk := range toks {
		if tk.Kind == token.IntLit || tk.Kind == token.StringLit || tk.Kind == token.ColonColon {
			texts = append(texts, tk.Text)
		}
	}
	want := []string{"::", "0x40", `"a\"b"`, "1_024", "16", "7"}
	if len(texts) != len(want) {
		t.Fatalf("got %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("literal %d: got %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestLexTriviaAttached(t *testing.T) {
	toks, _ := lexAll(t, "// header\n/* block */ struct")
	if toks[0].Kind != token.KwStruct {
		t.Fatalf("expected struct, got %s", toks[0].Kind)
	}
	var got []token.TriviaKind
	for _, tr := range toks[0].Leading {
		got = append(got, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment, token.TriviaSpace}
	if len(got) != len(want) {
		t.Fatalf("trivia = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("trivia %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"unknown char", "let x: int $", diag.LexUnknownChar},
		{"unterminated string", `memcpy(a, "abc`, diag.LexUnterminatedString},
		{"newline in string", "\"ab\ncd\"", diag.LexUnterminatedString},
		{"bad number", "12ab", diag.LexBadNumber},
		{"empty hex", "0x;", diag.LexBadNumber},
		{"open comment", "/* never closed", diag.LexUnterminatedBlockComment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := lexAll(t, tt.src)
			if bag.Len() == 0 {
				t.Fatal("expected a diagnostic")
			}
			if got := bag.Items()[0].Code; got != tt.code {
				t.Fatalf("code = %s, want %s", got.ID(), tt.code.ID())
			}
		})
	}
}

func TestLexNormalizesIdentifiers(t *testing.T) {
	// "é" as e + combining acute (NFD)
	toks, bag := lexAll(t, "caf\u00e9 cafe\u0301")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if toks[0].Kind != token.Ident || toks[1].Kind != token.Ident {
		t.Fatalf("expected two identifiers, got %s %s", toks[0].Kind, toks[1].Kind)
	}
	if toks[0].Text != toks[1].Text {
		t.Fatalf("identifiers not normalised: %q vs %q", toks[0].Text, toks[1].Text)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.cap", []byte("fn x"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if lx.Peek().Kind != token.KwFn || lx.Next().Kind != token.KwFn {
		t.Fatal("peek consumed token")
	}
	if lx.Next().Kind != token.Ident || lx.Next().Kind != token.EOF || lx.Next().Kind != token.EOF {
		t.Fatal("unexpected tail")
	}
}

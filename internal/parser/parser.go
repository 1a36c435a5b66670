package parser

import (
	"slices"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/lexer"
	"tagcopy/internal/source"
	"tagcopy/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	muted    int         // >0 while speculatively parsing
}

// ParseFile parses one file. The lexer shares the parser's reporter so
// lexical errors end up in the same bag.
func ParseFile(file *source.File, arenas *ast.Builder, opts Options) *ast.File {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	p := Parser{
		toks:   lx.All(),
		arenas: arenas,
		opts:   opts,
	}
	out := &ast.File{Source: file.ID}
	start := p.peek().Span
	for !p.at(token.EOF) && !p.opts.Enough() {
		item, ok := p.parseItem()
		if !ok {
			p.resyncTop()
			continue
		}
		out.Items = append(out.Items, item)
	}
	out.Span = start.Cover(p.peek().Span)
	return out
}

func (p *Parser) peek() token.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) parseItem() (ast.Item, bool) {
	switch p.peek().Kind {
	case token.KwTarget:
		return p.parseTarget()
	case token.KwStruct:
		return p.parseStruct()
	case token.KwFn:
		return p.parseFn()
	case token.KwInstantiate:
		return p.parseInstantiate()
	default:
		p.err(diag.SynUnexpectedTopLevel, "unexpected top-level construct \""+p.peek().Text+"\"")
		return nil, false
	}
}

func isTopLevelStarter(k token.Kind) bool {
	switch k {
	case token.KwTarget, token.KwStruct, token.KwFn, token.KwInstantiate:
		return true
	default:
		return false
	}
}

// resyncTop прокручивает до ';', '}' или начала следующего item.
func (p *Parser) resyncTop() {
	if !isTopLevelStarter(p.peek().Kind) {
		p.advance()
	}
	for !p.at(token.EOF) && !isTopLevelStarter(p.peek().Kind) {
		if p.atOr(token.Semicolon, token.RBrace) {
			p.advance()
			return
		}
		p.advance()
	}
}

package lexer

import (
	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем, но продолжаем лексить
	// KeepNFD disables NFC normalisation of identifiers.
	KeepNFD bool
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

package sema

import (
	"strings"

	"tagcopy/internal/diag"
	"tagcopy/internal/layout"
	"tagcopy/internal/source"
)

func (c *checker) resolveTarget(fallback *layout.Target) {
	decl := c.file.Target()
	switch {
	case decl != nil:
		t, ok := layout.LookupTarget(decl.Name)
		if ok {
			c.result.Target = t
			return
		}
		c.errorf(diag.SemaUnknownTarget, decl.Span, "unknown target '"+decl.Name+"'",
			diag.Note{Span: decl.Span, Msg: "known targets: " + strings.Join(layout.TargetNames(), ", ")})
	case fallback != nil:
		c.result.Target = *fallback
		return
	}
	c.result.Target = layout.Default()
}

func (c *checker) targetSpan() source.Span {
	if decl := c.file.Target(); decl != nil {
		return decl.Span
	}
	return c.file.Span
}

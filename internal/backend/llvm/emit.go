package llvm

import (
	"errors"
	"fmt"
	"strings"

	"tagcopy/internal/layout"
	"tagcopy/internal/sema"
)

// Emitter renders classified memory transfers as textual LLVM IR: one
// function per checked body (and per instantiation), one intrinsic call per
// transfer, and deduplicated attribute groups carrying the tag disposition.
type Emitter struct {
	target layout.Target
	buf    strings.Builder
	attrs  *attrGroups
	used   map[string]bool // declared intrinsics
	order  []string
}

type funcBody struct {
	name      string
	transfers []sema.Transfer
}

// EmitModule renders every transfer in res.
func EmitModule(res *sema.Result) (string, error) {
	if res == nil {
		return "", errors.New("nil semantic result")
	}
	if res.Target.AddrBits != 32 && res.Target.AddrBits != 64 {
		return "", fmt.Errorf("target %s: unsupported address width %d", res.Target.Name, res.Target.AddrBits)
	}
	e := &Emitter{
		target: res.Target,
		attrs:  newAttrGroups(),
		used:   make(map[string]bool),
	}
	funcs := groupByFunc(res.Transfers)

	var body strings.Builder
	for i, fn := range funcs {
		if i > 0 {
			body.WriteByte('\n')
		}
		e.emitFunc(&body, fn)
	}

	e.emitPreamble()
	e.emitDecls()
	e.buf.WriteString(body.String())
	e.attrs.emit(&e.buf)
	return e.buf.String(), nil
}

func groupByFunc(transfers []sema.Transfer) []funcBody {
	var out []funcBody
	index := make(map[string]int)
	for _, tr := range transfers {
		i, ok := index[tr.Func]
		if !ok {
			i = len(out)
			index[tr.Func] = i
			out = append(out, funcBody{name: tr.Func})
		}
		out[i].transfers = append(out[i].transfers, tr)
	}
	return out
}

func (e *Emitter) emitPreamble() {
	fmt.Fprintf(&e.buf, "target triple = %q\n\n", e.target.Triple)
}

func (e *Emitter) emitDecls() {
	if len(e.order) == 0 {
		return
	}
	ptr := e.ptrType()
	size := e.sizeType()
	for _, name := range e.order {
		fmt.Fprintf(&e.buf, "declare void @%s(%s, %s, %s, i1)\n", name, ptr, ptr, size)
	}
	e.buf.WriteByte('\n')
}

// operandRefs are the parameter names one call site refers to.
type operandRefs struct {
	dst, src, len string
}

// emitFunc declares every operand as a parameter so the body is valid IR
// on its own.
func (e *Emitter) emitFunc(w *strings.Builder, fn funcBody) {
	params := newParamList()
	ptr, size := e.ptrType(), e.sizeType()
	refs := make([]operandRefs, len(fn.transfers))
	for i, tr := range fn.transfers {
		refs[i].dst = params.add(tr.DstValue, "dst", ptr)
		refs[i].src = params.add(tr.SrcValue, "src", ptr)
		if _, ok := tr.Length.Bytes(); !ok {
			refs[i].len = params.add(tr.LenValue, "len", size)
		}
	}
	fmt.Fprintf(w, "define void %s(%s) {\nentry:\n", globalName(fn.name), params.String())
	for i, tr := range fn.transfers {
		e.emitTransfer(w, tr, refs[i])
	}
	w.WriteString("  ret void\n}\n")
}

func (e *Emitter) emitTransfer(w *strings.Builder, tr sema.Transfer, refs operandRefs) {
	intrinsic := e.intrinsic(tr)
	if !e.used[intrinsic] {
		e.used[intrinsic] = true
		e.order = append(e.order, intrinsic)
	}
	ptr := e.ptrType()
	length := "%" + refs.len
	if n, ok := tr.Length.Bytes(); ok {
		length = fmt.Sprintf("%d", n)
	}
	group := e.attrs.id(tr.Result.Disposition.Attribute())
	if tr.Implicit {
		w.WriteString("  ; copy-construction\n")
	}
	fmt.Fprintf(w, "  call void @%s(%s align %d %%%s, %s align %d %%%s, %s %s, i1 false) #%d\n",
		intrinsic,
		ptr, max(tr.Dst.DeclaredAlign, 1), refs.dst,
		ptr, max(tr.Src.DeclaredAlign, 1), refs.src,
		e.sizeType(), length, group)
}

// globalName quotes names that are not plain identifiers, e.g. "templ<int, 7>".
func globalName(name string) string {
	for _, r := range name {
		if !(r == '_' || r == '.' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return "@" + fmt.Sprintf("%q", name)
		}
	}
	return "@" + name
}

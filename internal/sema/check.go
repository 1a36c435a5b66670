package sema

import (
	"tagcopy/internal/alignbuiltin"
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/layout"
	"tagcopy/internal/source"
	"tagcopy/internal/tags"
	"tagcopy/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Types    *types.Interner
	// Target is used when the file has no `target` declaration.
	Target *layout.Target
	Policy tags.Policy
}

// Transfer is one classified memory-transfer call site. Sites inside generic
// bodies are recorded once per instantiation.
type Transfer struct {
	Func     string
	Op       tags.MemOp
	Span     source.Span
	Src      tags.Operand
	Dst      tags.Operand
	Length   tags.TransferLength
	Implicit bool // copy(x)
	Result   tags.Result
	// DstValue and SrcValue name the operands for IR emission; LenValue is
	// set for dynamic lengths.
	DstValue string
	SrcValue string
	LenValue string
}

// AlignCall is one resolved alignment builtin call.
type AlignCall struct {
	Func    string
	Call    alignbuiltin.Call
	Outcome alignbuiltin.Outcome
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	TypeInterner *types.Interner
	Target       layout.Target
	Layout       *layout.LayoutEngine
	Classifier   *tags.Classifier
	Transfers    []Transfer
	AlignCalls   []AlignCall
	// Instantiations lists specializations in declaration order, e.g. "templ<int, 32>".
	Instantiations []string
}

// Check resolves declarations, classifies every memory transfer and
// validates alignment builtins. Problems go to opts.Reporter; Check never
// fails as a whole.
func Check(file *ast.File, arenas *ast.Builder, opts Options) Result {
	res := Result{TypeInterner: opts.Types}
	if res.TypeInterner == nil {
		res.TypeInterner = types.NewInterner()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if file == nil || arenas == nil {
		res.Target = layout.Default()
		return res
	}

	c := &checker{
		file:     file,
		arenas:   arenas,
		base:     reporter,
		reporter: diag.NewDedupReporter(reporter),
		types:    res.TypeInterner,
		result:   &res,
		structs:  make(map[string]types.TypeID),
		fns:      make(map[string]*ast.FnDecl),
		pending:  make(map[ast.ExprID]*alignbuiltin.Pending),

		deferredExprs: make(map[ast.ExprID]bool),
		deferredDecls: make(map[source.Span]bool),
		generics:      make(map[*ast.FnDecl]map[string]types.TypeID),
	}
	c.resolveTarget(opts.Target)
	res.Layout = layout.New(res.Target, res.TypeInterner)
	classifier, err := tags.NewClassifier(res.Target.CapabilityLayout(), opts.Policy)
	if err != nil {
		c.report(diag.SemaUnknownTarget, diag.SevError, c.targetSpan(), "invalid capability layout: "+err.Error())
		return res
	}
	res.Classifier = classifier

	c.declareStructs()
	c.defineStructs()
	c.declareFns()
	c.checkFns()
	c.instantiateAll()
	return res
}

type checker struct {
	file   *ast.File
	arenas *ast.Builder
	base   diag.Reporter
	// reporter is replaced per body so that each instantiation reports its
	// own copy of a problem while repeats inside one body are dropped.
	reporter diag.Reporter
	types    *types.Interner
	result   *Result

	structs map[string]types.TypeID
	fns     map[string]*ast.FnDecl

	// pending holds align builtin calls deferred in generic bodies, keyed by call.
	pending map[ast.ExprID]*alignbuiltin.Pending
	// deferred marks call sites and declarations whose checks wait for instantiation.
	deferredExprs map[ast.ExprID]bool
	deferredDecls map[source.Span]bool
	// generics holds the parameter types registered for each generic function.
	generics map[*ast.FnDecl]map[string]types.TypeID

	// per-body state
	env *env
}

func (c *checker) report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes ...diag.Note) {
	c.reportWithFixes(code, sev, sp, msg, nil, notes...)
}

func (c *checker) reportWithFixes(code diag.Code, sev diag.Severity, sp source.Span, msg string, fixes []diag.Fix, notes ...diag.Note) {
	if c.muted() {
		return
	}
	b := diag.NewReportBuilder(c.reporter, sev, code, sp, msg).WithNotes(notes...).WithFixes(fixes...)
	if c.env != nil && c.env.inst != nil {
		b.WithNote(c.env.inst.site, "in instantiation of function template specialization '"+c.env.inst.label+"'")
	}
	b.Emit()
}

func (c *checker) errorf(code diag.Code, sp source.Span, msg string, notes ...diag.Note) {
	c.report(code, diag.SevError, sp, msg, notes...)
}

func (c *checker) expr(id ast.ExprID) *ast.Expr {
	return c.arenas.Exprs.Get(id)
}

func (c *checker) typeExpr(id ast.TypeID) *ast.TypeExpr {
	return c.arenas.Types.Get(id)
}

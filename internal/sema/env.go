package sema

import (
	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/source"
	"tagcopy/internal/types"
)

// local is a parameter or let binding.
type local struct {
	name string
	typ  types.TypeID
	// align is the declared alignment: max(natural, @align); 0 if unknown.
	align int
	// overaligned is set when @align raised the alignment above the natural one.
	overaligned bool
	span        source.Span
	// let bindings remember where an @align attribute can be written
	let      bool
	typeSpan source.Span
	attr     *ast.AlignAttr
}

// valueParam is a generic constant parameter such as `A: long`.
type valueParam struct {
	typ   types.TypeID
	value int64
	known bool
}

type instance struct {
	site  source.Span
	label string
}

// env is the scope of one body check. Generic bodies are checked once with
// generic=true and then once per instantiation with concrete parameters.
type env struct {
	fn         *ast.FnDecl
	name       string
	typeParams map[string]types.TypeID
	values     map[string]*valueParam
	locals     map[string]*local
	calls      map[ast.ExprID]types.TypeID
	generic    bool
	inst       *instance
	mute       int
}

func (c *checker) declEnv() *env {
	return &env{locals: map[string]*local{}, calls: map[ast.ExprID]types.TypeID{}}
}

func (c *checker) fnEnv(fn *ast.FnDecl) *env {
	e := &env{
		fn:         fn,
		name:       fn.Name,
		typeParams: c.generics[fn],
		values:     make(map[string]*valueParam),
		locals:     make(map[string]*local),
		calls:      make(map[ast.ExprID]types.TypeID),
		generic:    len(fn.Generics) > 0,
	}
	for _, gp := range fn.Generics {
		if gp.Kind != ast.NoTypeID {
			e.values[gp.Name] = &valueParam{}
		}
	}
	return e
}

// enter switches the checker to e with a fresh dedup scope.
func (c *checker) enter(e *env) func() {
	prevEnv, prevRep := c.env, c.reporter
	c.env = e
	c.reporter = diag.NewDedupReporter(c.base)
	return func() {
		c.env, c.reporter = prevEnv, prevRep
	}
}

func (c *checker) lookupLocal(name string) *local {
	if c.env == nil {
		return nil
	}
	return c.env.locals[name]
}

func (c *checker) lookupValue(name string) *valueParam {
	if c.env == nil {
		return nil
	}
	return c.env.values[name]
}

func (c *checker) lookupTypeParam(name string) (types.TypeID, bool) {
	if c.env == nil || c.env.typeParams == nil {
		return types.NoTypeID, false
	}
	id, ok := c.env.typeParams[name]
	return id, ok
}

// inGeneric reports a definition pass over a generic body.
func (c *checker) inGeneric() bool {
	return c.env != nil && c.env.generic
}

// replaying reports an instantiation pass: only sites deferred by the
// definition pass produce diagnostics.
func (c *checker) replaying() bool {
	return c.env != nil && c.env.inst != nil
}

// silence drops diagnostics and records while on is set. Calls nest.
func (c *checker) silence(on bool) func() {
	if !on || c.env == nil {
		return func() {}
	}
	c.env.mute++
	return func() { c.env.mute-- }
}

func (c *checker) muted() bool {
	return c.env != nil && c.env.mute > 0
}

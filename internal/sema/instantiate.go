package sema

import (
	"fmt"
	"strings"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/types"
)

// instantiateAll re-checks generic bodies once per distinct specialization.
func (c *checker) instantiateAll() {
	seen := make(map[string]bool)
	for _, it := range c.file.Items {
		decl, ok := it.(*ast.InstantiateDecl)
		if !ok {
			continue
		}
		e, ok := c.instanceEnv(decl)
		if !ok || seen[e.name] {
			continue
		}
		seen[e.name] = true
		c.result.Instantiations = append(c.result.Instantiations, e.name)
		c.checkBody(e)
	}
}

func (c *checker) instanceEnv(decl *ast.InstantiateDecl) (*env, bool) {
	defer c.enter(c.declEnv())()

	fn, ok := c.fns[decl.Name]
	if !ok {
		c.errorf(diag.SemaUnresolvedSymbol, decl.Span, fmt.Sprintf("no function template named '%s'", decl.Name))
		return nil, false
	}
	declared := diag.Note{Span: fn.NameSpan, Msg: "template is declared here"}
	if len(fn.Generics) == 0 {
		c.errorf(diag.SemaInstantiationMismatch, decl.Span, fmt.Sprintf("'%s' is not a generic function", fn.Name), declared)
		return nil, false
	}
	if len(decl.Args) != len(fn.Generics) {
		what := "few"
		if len(decl.Args) > len(fn.Generics) {
			what = "many"
		}
		c.errorf(diag.SemaInstantiationMismatch, decl.Span,
			fmt.Sprintf("too %s template arguments for '%s': expected %d, have %d", what, fn.Name, len(fn.Generics), len(decl.Args)), declared)
		return nil, false
	}

	inst := &env{
		fn:         fn,
		typeParams: make(map[string]types.TypeID, len(fn.Generics)),
		values:     make(map[string]*valueParam),
		locals:     make(map[string]*local),
		calls:      make(map[ast.ExprID]types.TypeID),
	}
	labels := make([]string, 0, len(decl.Args))
	for i, gp := range fn.Generics {
		arg := decl.Args[i]
		if gp.Kind == ast.NoTypeID {
			if arg.Type == ast.NoTypeID {
				c.errorf(diag.SemaInstantiationMismatch, arg.Span, fmt.Sprintf("template argument for template type parameter '%s' must be a type", gp.Name), declared)
				return nil, false
			}
			t := c.resolveType(arg.Type)
			if t == types.NoTypeID {
				return nil, false
			}
			inst.typeParams[gp.Name] = t
			labels = append(labels, types.Label(c.types, t))
			continue
		}

		kind := c.paramKind(inst, gp)
		if kind == types.NoTypeID {
			return nil, false
		}
		if !c.types.IsIntegral(kind) {
			c.errorf(diag.SemaInstantiationMismatch, gp.Span,
				fmt.Sprintf("template parameter '%s' has non-integral type '%s'", gp.Name, types.Label(c.types, kind)), declared)
			return nil, false
		}
		if arg.Value == ast.NoExprID {
			c.errorf(diag.SemaInstantiationMismatch, arg.Span, fmt.Sprintf("template argument for parameter '%s' must be a constant of type '%s'", gp.Name, types.Label(c.types, kind)), declared)
			return nil, false
		}
		v := c.constEval(arg.Value)
		if v.state != constKnown {
			if v.state != constInvalid {
				c.errorf(diag.SemaConstNotConstant, arg.Span, "template argument is not a constant expression")
			}
			return nil, false
		}
		inst.values[gp.Name] = &valueParam{typ: kind, value: v.value, known: true}
		labels = append(labels, formatArg(v.value))
	}
	inst.name = fmt.Sprintf("%s<%s>", fn.Name, strings.Join(labels, ", "))
	inst.inst = &instance{site: decl.Span, label: inst.name}
	return inst, true
}

// paramKind resolves the type of a value parameter; it may name an earlier
// type parameter, as in `<T, A: T>`.
func (c *checker) paramKind(inst *env, gp ast.GenericParam) types.TypeID {
	scope := c.declEnv()
	scope.typeParams = inst.typeParams
	defer c.enter(scope)()
	return c.resolveType(gp.Kind)
}

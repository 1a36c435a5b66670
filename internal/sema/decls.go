package sema

import (
	"errors"
	"fmt"

	"tagcopy/internal/ast"
	"tagcopy/internal/diag"
	"tagcopy/internal/layout"
	"tagcopy/internal/types"
)

// declareStructs registers every struct name so fields may refer forward.
// A forward declaration followed by a definition names the same type.
func (c *checker) declareStructs() {
	defined := make(map[string]*ast.StructDecl)
	for _, it := range c.file.Items {
		decl, ok := it.(*ast.StructDecl)
		if !ok {
			continue
		}
		if _, builtin := c.types.LookupBuiltin(decl.Name); builtin {
			c.errorf(diag.SemaDuplicateSymbol, decl.NameSpan, fmt.Sprintf("cannot redeclare built-in type '%s'", decl.Name))
			continue
		}
		if _, seen := c.structs[decl.Name]; !seen {
			c.structs[decl.Name] = c.types.RegisterStruct(decl.Name, decl.NameSpan)
		}
		if decl.Incomplete {
			continue
		}
		if prev, dup := defined[decl.Name]; dup {
			c.errorf(diag.SemaDuplicateSymbol, decl.NameSpan, fmt.Sprintf("redefinition of 'struct %s'", decl.Name),
				diag.Note{Span: prev.NameSpan, Msg: "previous definition is here"})
			continue
		}
		defined[decl.Name] = decl
	}
}

// defineStructs resolves field types in declaration order, then checks
// that every complete struct has a finite layout.
func (c *checker) defineStructs() {
	defer c.enter(c.declEnv())()

	var done []*ast.StructDecl
	for _, it := range c.file.Items {
		decl, ok := it.(*ast.StructDecl)
		if !ok || decl.Incomplete {
			continue
		}
		id, ok := c.structs[decl.Name]
		if !ok {
			continue
		}
		if info, _ := c.types.StructInfo(id); info != nil && info.Complete {
			continue // redefinition, already reported
		}
		c.types.SetStructFields(id, c.structFields(decl), structMethods(decl))
		done = append(done, decl)
	}

	for _, decl := range done {
		id := c.structs[decl.Name]
		if _, err := c.result.Layout.LayoutOf(id); err != nil {
			var lerr *layout.LayoutError
			if errors.As(err, &lerr) && lerr.Kind == layout.LayoutErrRecursiveUnsized {
				c.errorf(diag.SemaRecursiveUnsized, decl.NameSpan, lerr.Error())
			}
		}
	}
}

func (c *checker) structFields(decl *ast.StructDecl) []types.StructField {
	fields := make([]types.StructField, 0, len(decl.Fields))
	seen := make(map[string]bool, len(decl.Fields))
	for _, f := range decl.Fields {
		if seen[f.Name] {
			c.errorf(diag.SemaDuplicateSymbol, f.Span, fmt.Sprintf("duplicate member '%s'", f.Name))
			continue
		}
		seen[f.Name] = true
		ft := c.resolveType(f.Type)
		if ft == types.NoTypeID {
			continue
		}
		if !c.types.IsComplete(ft) && c.types.Kind(ft) != types.KindPointer {
			c.errorf(diag.SemaIncompleteType, f.Span, fmt.Sprintf("field has incomplete type '%s'", c.incompleteLabel(ft)))
			continue
		}
		align, _ := c.alignAttr(f.Align)
		fields = append(fields, types.StructField{Name: f.Name, Type: ft, Align: align, Span: f.Span})
	}
	return fields
}

func structMethods(decl *ast.StructDecl) []types.StructMethod {
	if len(decl.Methods) == 0 {
		return nil
	}
	out := make([]types.StructMethod, 0, len(decl.Methods))
	for _, m := range decl.Methods {
		out = append(out, types.StructMethod{Name: m.Name, Virtual: m.Virtual})
	}
	return out
}

// incompleteLabel names the innermost incomplete type: for fwddecl[16] it is 'struct fwddecl'.
func (c *checker) incompleteLabel(id types.TypeID) string {
	for c.types.Kind(id) == types.KindArray {
		id = c.types.Elem(id)
	}
	return types.Label(c.types, id)
}

func (c *checker) declareFns() {
	for _, it := range c.file.Items {
		decl, ok := it.(*ast.FnDecl)
		if !ok {
			continue
		}
		if prev, dup := c.fns[decl.Name]; dup {
			c.errorf(diag.SemaDuplicateSymbol, decl.NameSpan, fmt.Sprintf("redefinition of '%s'", decl.Name),
				diag.Note{Span: prev.NameSpan, Msg: "previous definition is here"})
			continue
		}
		if _, ok := builtinCallee(decl.Name); ok {
			c.errorf(diag.SemaDuplicateSymbol, decl.NameSpan, fmt.Sprintf("cannot redefine builtin '%s'", decl.Name))
			continue
		}
		c.fns[decl.Name] = decl
		if len(decl.Generics) > 0 {
			params := make(map[string]types.TypeID, len(decl.Generics))
			for _, gp := range decl.Generics {
				if gp.Kind == ast.NoTypeID {
					params[gp.Name] = c.types.RegisterParam(gp.Name, gp.Span)
				}
			}
			c.generics[decl] = params
		}
	}
}

func (c *checker) checkFns() {
	for _, it := range c.file.Items {
		decl, ok := it.(*ast.FnDecl)
		if !ok || c.fns[decl.Name] != decl {
			continue
		}
		c.checkBody(c.fnEnv(decl))
	}
}

package layout

import (
	"tagcopy/internal/types"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int
	FieldAligns  []int
}

// LayoutEngine computes memory layout for types. It is not safe for
// concurrent use; each file gets its own engine.
type LayoutEngine struct {
	Target Target
	Types  *types.Interner

	cache *cache
}

// New creates a new LayoutEngine for the specified target.
func New(target Target, typesIn *types.Interner) *LayoutEngine {
	return &LayoutEngine{
		Target: target,
		Types:  typesIn,
		cache:  newCache(),
	}
}

// LayoutOf computes and caches the layout of a type.
func (e *LayoutEngine) LayoutOf(t types.TypeID) (TypeLayout, error) {
	l, err := e.layoutOf(t, nil)
	if err != nil {
		return l, err
	}
	return l, nil
}

func (e *LayoutEngine) layoutOf(t types.TypeID, stack []types.TypeID) (TypeLayout, *LayoutError) {
	if cached, ok := e.cache.get(t); ok {
		return cached.Layout, cached.Err
	}
	for i, id := range stack {
		if id != t {
			continue
		}
		cycle := make([]string, 0, len(stack)-i+1)
		for _, c := range stack[i:] {
			cycle = append(cycle, types.Label(e.Types, c))
		}
		cycle = append(cycle, types.Label(e.Types, t))
		return TypeLayout{Size: 0, Align: 1}, &LayoutError{
			Kind:  LayoutErrRecursiveUnsized,
			Type:  t,
			Label: types.Label(e.Types, t),
			Cycle: cycle,
		}
	}

	l, err := e.computeLayout(t, append(stack, t))
	e.cache.put(t, cacheEntry{Layout: l, Err: err})
	return l, err
}

// SizeOf returns the size of a type in bytes.
func (e *LayoutEngine) SizeOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *LayoutEngine) AlignOf(t types.TypeID) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

package llvm

import (
	"fmt"
	"strings"
)

// attrGroups numbers distinct attribute sets in first-use order.
type attrGroups struct {
	ids   map[string]int
	order []string
}

func newAttrGroups() *attrGroups {
	return &attrGroups{ids: make(map[string]int)}
}

func (g *attrGroups) id(attr string) int {
	if id, ok := g.ids[attr]; ok {
		return id
	}
	id := len(g.order)
	g.ids[attr] = id
	g.order = append(g.order, attr)
	return id
}

func (g *attrGroups) emit(w *strings.Builder) {
	if len(g.order) == 0 {
		return
	}
	w.WriteByte('\n')
	for id, attr := range g.order {
		fmt.Fprintf(w, "attributes #%d = { %s }\n", id, attr)
	}
}

// paramList collects distinct operand names with their IR types.
// A name reused with another type (two "tmp" fallbacks, say a pointer and a
// length) gets a numeric suffix instead of sharing one parameter.
type paramList struct {
	byKey map[paramKey]string
	taken map[string]bool
	names []string
	types []string
}

type paramKey struct {
	name, typ string
}

func newParamList() *paramList {
	return &paramList{byKey: make(map[paramKey]string), taken: make(map[string]bool)}
}

// add returns the parameter name to reference the value by.
func (p *paramList) add(name, fallback, typ string) string {
	name = valueName(name, fallback)
	key := paramKey{name: name, typ: typ}
	if got, ok := p.byKey[key]; ok {
		return got
	}
	unique := name
	for n := 1; p.taken[unique]; n++ {
		unique = fmt.Sprintf("%s.%d", name, n)
	}
	p.byKey[key] = unique
	p.taken[unique] = true
	p.names = append(p.names, unique)
	p.types = append(p.types, typ)
	return unique
}

func (p *paramList) String() string {
	parts := make([]string, len(p.names))
	for i := range p.names {
		parts[i] = p.types[i] + " %" + p.names[i]
	}
	return strings.Join(parts, ", ")
}

func valueName(name, fallback string) string {
	name = strings.TrimPrefix(name, ".")
	if name == "" {
		return fallback
	}
	return name
}

package layout

import (
	"slices"

	"tagcopy/internal/tags"
)

// Target describes the ABI properties the analysis depends on.
type Target struct {
	Name      string
	Triple    string
	PtrSize   int // bytes
	PtrAlign  int // bytes
	CapSize   int // capability slot width in bytes
	CapAlign  int // capability slot alignment in bytes
	Purecap   bool
	AddrSpace int // LLVM address space of pointers
	AddrBits  int // width of addresses and size_t
}

// Purecap128 is a 64-bit purecap CHERI target: every pointer is a 16-byte capability.
func Purecap128() Target {
	return Target{
		Name:      "purecap128",
		Triple:    "riscv64-unknown-freebsd-purecap",
		PtrSize:   16,
		PtrAlign:  16,
		CapSize:   16,
		CapAlign:  16,
		Purecap:   true,
		AddrSpace: 200,
		AddrBits:  64,
	}
}

// Hybrid64 keeps 8-byte integer pointers; only explicit `cap` values are capabilities.
func Hybrid64() Target {
	return Target{
		Name:      "hybrid64",
		Triple:    "riscv64-unknown-freebsd",
		PtrSize:   8,
		PtrAlign:  8,
		CapSize:   16,
		CapAlign:  16,
		Purecap:   false,
		AddrSpace: 0,
		AddrBits:  64,
	}
}

// Purecap64 is a 32-bit purecap target with 8-byte capabilities.
func Purecap64() Target {
	return Target{
		Name:      "purecap64",
		Triple:    "riscv32-unknown-freebsd-purecap",
		PtrSize:   8,
		PtrAlign:  8,
		CapSize:   8,
		CapAlign:  8,
		Purecap:   true,
		AddrSpace: 200,
		AddrBits:  32,
	}
}

var knownTargets = map[string]func() Target{
	"purecap128": Purecap128,
	"hybrid64":   Hybrid64,
	"purecap64":  Purecap64,
}

// Default is the target used when a file declares none.
func Default() Target {
	return Purecap128()
}

// LookupTarget resolves a target by name.
func LookupTarget(name string) (Target, bool) {
	mk, ok := knownTargets[name]
	if !ok {
		return Target{}, false
	}
	return mk(), true
}

// TargetNames returns the known target names, sorted.
func TargetNames() []string {
	names := make([]string, 0, len(knownTargets))
	for n := range knownTargets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// CapabilityLayout is the slot geometry handed to the tag classifier.
func (t Target) CapabilityLayout() tags.CapabilityLayout {
	return tags.CapabilityLayout{SlotWidth: t.CapSize, SlotAlign: t.CapAlign}
}

// WithSlot returns a copy of t with an overridden capability slot.
func (t Target) WithSlot(width, align int) Target {
	t.CapSize, t.CapAlign = width, align
	if t.Purecap {
		t.PtrSize, t.PtrAlign = width, align
	}
	return t
}

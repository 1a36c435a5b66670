package llvm

import (
	"fmt"

	"tagcopy/internal/sema"
)

// intrinsic is the overloaded name, e.g. llvm.memcpy.p200i8.p200i8.i64.
func (e *Emitter) intrinsic(tr sema.Transfer) string {
	as := e.target.AddrSpace
	return fmt.Sprintf("llvm.%s.p%di8.p%di8.i%d", tr.Op, as, as, e.target.AddrBits)
}

func (e *Emitter) ptrType() string {
	if e.target.AddrSpace == 0 {
		return "i8*"
	}
	return fmt.Sprintf("i8 addrspace(%d)*", e.target.AddrSpace)
}

func (e *Emitter) sizeType() string {
	return fmt.Sprintf("i%d", e.target.AddrBits)
}

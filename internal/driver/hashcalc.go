package driver

import (
	"fmt"

	"tagcopy/internal/project"
	"tagcopy/internal/version"
)

// cacheKey: H(content || version || options). Every option that changes
// diagnostics or output participates.
func cacheKey(content project.Digest, opts *Options) project.Digest {
	target := "file"
	if opts.Target != nil {
		t := opts.Target
		target = fmt.Sprintf("%s/%d/%d", t.Name, t.CapSize, t.CapAlign)
	}
	return project.Combine(content,
		[]byte(version.Version),
		[]byte(target),
		fmt.Appendf(nil, "policy=%t,%t", opts.Policy.ExcludeSubSlotCopies, opts.Policy.CharArraysAsTagStorage),
		fmt.Appendf(nil, "werror=%t ir=%t max=%d", opts.WarningsAsErrors, opts.EmitIR, opts.MaxDiagnostics),
	)
}

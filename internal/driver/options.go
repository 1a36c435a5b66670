package driver

import (
	"tagcopy/internal/layout"
	"tagcopy/internal/tags"
)

// Options configure a check run over one or more .cap files.
type Options struct {
	MaxDiagnostics int
	// Target applies to files without a `target` declaration; nil means the default.
	Target *layout.Target
	Policy tags.Policy
	// Jobs bounds parallel workers; <= 0 uses GOMAXPROCS.
	Jobs             int
	WarningsAsErrors bool
	EmitIR           bool
	EnableTimings    bool
	BaseDir          string
	Cache            *DiskCache
	PhaseObserver    PhaseObserver
}

func (o *Options) observe(file string, ev PhaseEvent) {
	if o == nil || o.PhaseObserver == nil {
		return
	}
	ev.File = file
	o.PhaseObserver(ev)
}

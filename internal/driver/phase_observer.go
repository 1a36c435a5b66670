package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported to observers.
const (
	PhaseParse = "parse"
	PhaseSema  = "sema"
	PhaseEmit  = "emit"
	PhaseCache = "cache"
)

// PhaseEvent describes a timing phase boundary for one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events. It may be called from several
// goroutines at once.
type PhaseObserver func(PhaseEvent)

package engine

import (
	"time"

	"github.com/tscheck-dev/tscheck/internal/compiler"
	"github.com/tscheck-dev/tscheck/internal/diagnostics"
)

// GroupStarted describes a group beginning execution.
type GroupStarted struct {
	ConfigPath string
	FileCount  int
	Index      int // zero-based position among groups
	Total      int
}

// GroupCompleted describes a finished group, successful or not.
type GroupCompleted struct {
	ConfigPath string
	Impl       compiler.Implementation
	Errors     int
	Warnings   int
	Duration   time.Duration
	Err        error // group-level fault, nil on a well-formed run
}

// Sink receives structured progress events from the engine. The engine never
// writes to the terminal itself; presentation belongs to the caller. Sinks
// must be safe for concurrent use, since groups complete in parallel.
type Sink interface {
	OnGroupStarted(e GroupStarted)
	OnGroupCompleted(e GroupCompleted)
	OnDiagnostic(d diagnostics.Diagnostic)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnGroupStarted(GroupStarted) {}

func (NopSink) OnGroupCompleted(GroupCompleted) {}

func (NopSink) OnDiagnostic(diagnostics.Diagnostic) {}

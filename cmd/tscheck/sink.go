package main

import (
	"log/slog"

	"github.com/tscheck-dev/tscheck/internal/diagnostics"
	"github.com/tscheck-dev/tscheck/internal/engine"
)

// slogSink forwards engine progress events to the structured logger. The
// engine never touches the terminal itself; this is the presentation edge.
type slogSink struct {
	log *slog.Logger
}

func newSlogSink() *slogSink {
	return &slogSink{log: slog.Default()}
}

func (s *slogSink) OnGroupStarted(e engine.GroupStarted) {
	s.log.Debug("group started",
		"config", e.ConfigPath,
		"files", e.FileCount,
		"group", e.Index+1,
		"of", e.Total)
}

func (s *slogSink) OnGroupCompleted(e engine.GroupCompleted) {
	if e.Err != nil {
		s.log.Error("group failed", "config", e.ConfigPath, "error", e.Err)
		return
	}
	s.log.Debug("group completed",
		"config", e.ConfigPath,
		"compiler", e.Impl,
		"errors", e.Errors,
		"warnings", e.Warnings,
		"duration", e.Duration)
}

func (s *slogSink) OnDiagnostic(d diagnostics.Diagnostic) {
	s.log.Debug("diagnostic", "file", d.File, "line", d.Line, "code", d.Code, "severity", d.Severity.String())
}

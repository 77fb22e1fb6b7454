package engine

import (
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/tscheck-dev/tscheck/internal/apperrors"
	"github.com/tscheck-dev/tscheck/internal/compiler"
	"github.com/tscheck-dev/tscheck/internal/diagnostics"
)

// GroupResult is the outcome of one configuration scope.
type GroupResult struct {
	ConfigPath  string                   `json:"config_path"`
	Files       []string                 `json:"files"`
	Impl        compiler.Implementation  `json:"compiler,omitempty"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
	Duration    time.Duration            `json:"duration_ms"`
	Err         error                    `json:"-"`
	ErrMessage  string                   `json:"error,omitempty"`
}

// CheckResult is the unified outcome of one invocation.
type CheckResult struct {
	// Success requires zero error diagnostics AND no group-level system
	// fault; a system fault is distinct from "type errors found" but also
	// marks the run unsuccessful.
	Success      bool                     `json:"success"`
	ErrorCount   int                      `json:"error_count"`
	WarningCount int                      `json:"warning_count"`
	Diagnostics  []diagnostics.Diagnostic `json:"diagnostics"`
	Duration     time.Duration            `json:"duration_ms"`
	// CheckedFiles always equals the original input set, independent of
	// grouping or outcome.
	CheckedFiles []string      `json:"checked_files"`
	Groups       []GroupResult `json:"groups"`
}

// HasGroupFault reports whether any group ended with a system-level error.
func (r *CheckResult) HasGroupFault() bool {
	for _, g := range r.Groups {
		if g.Err != nil {
			return true
		}
	}
	return false
}

// ExitCode maps the result onto the CLI contract: 0 success, 1 diagnostics
// present, 3 system error. (Configuration errors abort before a result
// exists and map to 2 in the error path.)
func (r *CheckResult) ExitCode() int {
	if r.HasGroupFault() {
		return apperrors.ExitSystem
	}
	if r.ErrorCount > 0 {
		return apperrors.ExitDiagnostics
	}
	return apperrors.ExitOK
}

// DiagnosticEnv is the expression environment for --filter programs.
type DiagnosticEnv struct {
	File     string `expr:"file"`
	Line     int    `expr:"line"`
	Column   int    `expr:"column"`
	Code     string `expr:"code"`
	Severity string `expr:"severity"`
}

// Filter returns a copy of the result keeping only diagnostics the compiled
// program selects, with counts and success recomputed. Group faults and the
// checked-file set are preserved untouched.
func (r *CheckResult) Filter(program *vm.Program) (*CheckResult, error) {
	kept := []diagnostics.Diagnostic{}
	for _, d := range r.Diagnostics {
		env := DiagnosticEnv{
			File:     d.File,
			Line:     d.Line,
			Column:   d.Column,
			Code:     d.Code,
			Severity: d.Severity.String(),
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, err
		}
		if keep, ok := out.(bool); ok && keep {
			kept = append(kept, d)
		}
	}

	filtered := *r
	filtered.Diagnostics = kept
	filtered.ErrorCount, filtered.WarningCount = diagnostics.Count(kept)
	filtered.Success = filtered.ErrorCount == 0 && !r.HasGroupFault()
	return &filtered, nil
}

// Package diagnostics models compiler-reported issues and parses them out of
// raw tsc/tsgo output.
package diagnostics

import (
	"fmt"
	"sort"
)

// Confidence records how cleanly a diagnostic was recognized. Lines matching
// the primary grammar are high confidence; unclassifiable output is kept as
// low-confidence entries rather than dropped, so real issues are never hidden.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceHigh
)

// Diagnostic is one compiler-reported issue. Immutable once parsed.
type Diagnostic struct {
	File       string     `json:"file"`
	Line       int        `json:"line"`   // 1-based
	Column     int        `json:"column"` // 1-based
	Code       string     `json:"code,omitempty"` // e.g. "TS2322"
	Severity   Severity   `json:"severity"`
	Message    string     `json:"message"`
	Confidence Confidence `json:"-"`
}

// String renders the diagnostic back in the compiler's own format.
func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s(%d,%d): %s %s: %s", d.File, d.Line, d.Column, d.Severity, d.Code, d.Message)
}

// Sort orders diagnostics by (file, line, column) in place for deterministic
// output across runs and group orderings.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Count returns the number of error and warning diagnostics.
func Count(diags []Diagnostic) (errors, warnings int) {
	for _, d := range diags {
		switch {
		case d.Severity.IsError():
			errors++
		case d.Severity.Equals(SevWarning):
			warnings++
		}
	}
	return errors, warnings
}

// Package output provides formatters for check results.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tscheck-dev/tscheck/internal/engine"
)

// TableFormatter formats check results as a human-readable report.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// Format writes the check result as a report.
func (f *TableFormatter) Format(result *engine.CheckResult) error {
	fmt.Fprintf(f.writer, "Checked %d files in %s across %d project(s)\n",
		len(result.CheckedFiles), result.Duration.Round(time.Millisecond), len(result.Groups))
	fmt.Fprintln(f.writer)

	if len(result.Diagnostics) > 0 {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(f.writer, d.String())
		}
		fmt.Fprintln(f.writer)
	}

	for _, g := range result.Groups {
		if g.Err != nil {
			fmt.Fprintf(f.writer, "✗ %s: %s\n", g.ConfigPath, g.ErrMessage)
		}
	}

	fmt.Fprintln(f.writer, strings.Repeat("─", 60))
	status := "PASS"
	if !result.Success {
		status = "FAIL"
	}
	fmt.Fprintf(f.writer, "%s: %d error(s), %d warning(s)\n", status, result.ErrorCount, result.WarningCount)
	return nil
}

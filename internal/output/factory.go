package output

import (
	"fmt"
	"io"

	"github.com/tscheck-dev/tscheck/internal/engine"
)

// Formatter renders a check result to a writer.
type Formatter interface {
	Format(result *engine.CheckResult) error
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(w io.Writer, format string) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w, true), nil
	case "sarif":
		return NewSARIFFormatter(w), nil
	case "junit":
		return NewJUnitFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: table, json, sarif, junit)", format)
	}
}

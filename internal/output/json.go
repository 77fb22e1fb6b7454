package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tscheck-dev/tscheck/internal/engine"
)

// JSONFormatter formats check results as JSON.
type JSONFormatter struct {
	writer io.Writer
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, pretty bool) *JSONFormatter {
	return &JSONFormatter{writer: w, pretty: pretty}
}

// Format writes the check result as JSON.
func (f *JSONFormatter) Format(result *engine.CheckResult) error {
	encoder := json.NewEncoder(f.writer)
	if f.pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

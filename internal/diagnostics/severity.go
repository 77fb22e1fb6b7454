package diagnostics

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a compiler diagnostic.
// Enforces valid severity values and provides ordering.
type Severity struct {
	value severityLevel
}

type severityLevel int

const (
	severityUnknown severityLevel = 0
	severityWarning severityLevel = 1
	severityError   severityLevel = 2
)

// Predefined severity values
var (
	SevUnknown = Severity{severityUnknown}
	SevWarning = Severity{severityWarning}
	SevError   = Severity{severityError}
)

// NewSeverity creates a Severity from string
func NewSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SevError, nil
	case "warning":
		return SevWarning, nil
	case "":
		return SevUnknown, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

// MustNewSeverity creates a Severity or panics
func MustNewSeverity(s string) Severity {
	sev, err := NewSeverity(s)
	if err != nil {
		panic(err)
	}
	return sev
}

// String returns the string representation
func (s Severity) String() string {
	switch s.value {
	case severityError:
		return "error"
	case severityWarning:
		return "warning"
	default:
		return ""
	}
}

// Level returns the numeric severity level (for ordering)
func (s Severity) Level() int {
	return int(s.value)
}

// IsError reports whether the severity is error.
func (s Severity) IsError() bool {
	return s.value == severityError
}

// Equals checks if two severities are equal
func (s Severity) Equals(other Severity) bool {
	return s.value == other.value
}

// MarshalJSON implements json.Marshaler
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Severity) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return fmt.Errorf("invalid severity JSON: %s", str)
	}
	sev, err := NewSeverity(str[1 : len(str)-1])
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

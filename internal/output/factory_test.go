package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewFormatter(t *testing.T) {
	tests := []struct {
		format string
		want   interface{}
	}{
		{"", &TableFormatter{}},
		{"table", &TableFormatter{}},
		{"json", &JSONFormatter{}},
		{"sarif", &SARIFFormatter{}},
		{"junit", &JUnitFormatter{}},
	}

	for _, tt := range tests {
		name := tt.format
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			f, err := NewFormatter(&bytes.Buffer{}, tt.format)
			require.NoError(t, err)
			assert.IsType(t, tt.want, f)
		})
	}
}

func Test_NewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter(&bytes.Buffer{}, "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

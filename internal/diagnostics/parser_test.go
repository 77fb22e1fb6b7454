package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_PrimaryLines(t *testing.T) {
	raw := "src/user.ts(42,7): error TS2322: Type 'string' is not assignable to type 'number'.\n" +
		"src/api.ts(3,1): warning TS6133: 'fetch' is declared but its value is never read.\n"

	diags := Parse(raw)
	require.Len(t, diags, 2)

	assert.Equal(t, "src/user.ts", diags[0].File)
	assert.Equal(t, 42, diags[0].Line)
	assert.Equal(t, 7, diags[0].Column)
	assert.Equal(t, "TS2322", diags[0].Code)
	assert.Equal(t, SevError, diags[0].Severity)
	assert.Equal(t, "Type 'string' is not assignable to type 'number'.", diags[0].Message)
	assert.Equal(t, ConfidenceHigh, diags[0].Confidence)

	assert.Equal(t, SevWarning, diags[1].Severity)
}

func Test_Parse_ContinuationLines(t *testing.T) {
	raw := "src/user.ts(10,5): error TS2345: Argument of type '{ id: string; }' is not assignable.\n" +
		"  Types of property 'id' are incompatible.\n" +
		"    Type 'string' is not assignable to type 'number'.\n"

	diags := Parse(raw)
	require.Len(t, diags, 1)
	assert.Equal(t, "Argument of type '{ id: string; }' is not assignable.\n"+
		"Types of property 'id' are incompatible.\n"+
		"Type 'string' is not assignable to type 'number'.", diags[0].Message)
}

func Test_Parse_PathConventions(t *testing.T) {
	tests := []struct {
		name string
		line string
		file string
	}{
		{
			name: "windows drive letter and backslashes",
			line: `C:\work\src\main.ts(1,1): error TS1005: ';' expected.`,
			file: `C:\work\src\main.ts`,
		},
		{
			name: "forward slashes",
			line: `packages/core/src/index.ts(7,3): error TS2304: Cannot find name 'foo'.`,
			file: `packages/core/src/index.ts`,
		},
		{
			name: "parentheses in path",
			line: `src/pages/(auth)/login.ts(2,10): error TS2307: Cannot find module './x'.`,
			file: `src/pages/(auth)/login.ts`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Parse(tt.line)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.file, diags[0].File)
			assert.Equal(t, ConfidenceHigh, diags[0].Confidence)
		})
	}
}

func Test_Parse_GlobalError(t *testing.T) {
	diags := Parse("error TS18003: No inputs were found in config file 'tsconfig.json'.")
	require.Len(t, diags, 1)
	assert.Empty(t, diags[0].File)
	assert.Equal(t, "TS18003", diags[0].Code)
	assert.Equal(t, SevError, diags[0].Severity)
}

func Test_Parse_SummaryLinesDiscarded(t *testing.T) {
	raw := "src/a.ts(1,1): error TS2322: Bad assignment.\n" +
		"\n" +
		"Found 1 error in src/a.ts:1\n"

	diags := Parse(raw)
	require.Len(t, diags, 1)
	assert.Equal(t, "TS2322", diags[0].Code)
}

func Test_Parse_UnclassifiableKeptLowConfidence(t *testing.T) {
	diags := Parse("Segmentation fault (core dumped)")
	require.Len(t, diags, 1)
	assert.Equal(t, ConfidenceLow, diags[0].Confidence)
	assert.Equal(t, SevWarning, diags[0].Severity)
	assert.Equal(t, "Segmentation fault (core dumped)", diags[0].Message)
}

func Test_Parse_Empty(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("\n\n"))
}

func Test_Sort_ByFileLineColumn(t *testing.T) {
	diags := []Diagnostic{
		{File: "b.ts", Line: 1, Column: 1},
		{File: "a.ts", Line: 9, Column: 2},
		{File: "a.ts", Line: 9, Column: 1},
		{File: "a.ts", Line: 2, Column: 5},
	}
	Sort(diags)

	assert.Equal(t, []Diagnostic{
		{File: "a.ts", Line: 2, Column: 5},
		{File: "a.ts", Line: 9, Column: 1},
		{File: "a.ts", Line: 9, Column: 2},
		{File: "b.ts", Line: 1, Column: 1},
	}, diags)
}

func Test_Count(t *testing.T) {
	errs, warns := Count([]Diagnostic{
		{Severity: SevError},
		{Severity: SevError},
		{Severity: SevWarning},
	})
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, warns)
}

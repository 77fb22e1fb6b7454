package diagnostics

import (
	"regexp"
	"strconv"
	"strings"
)

// primaryLine matches the compiler's machine-readable diagnostic format:
//
//	<file>(<line>,<column>): <severity> <code>: <message>
//
// The greedy file group tolerates Windows drive-letter colons, parentheses in
// paths, and either path-separator convention: the location suffix anchors
// the match.
var primaryLine = regexp.MustCompile(`^(.+)\((\d+),(\d+)\): (error|warning) ([A-Za-z]+\d+): (.*)$`)

// globalLine matches file-less diagnostics such as
// "error TS18003: No inputs were found in config file ...".
var globalLine = regexp.MustCompile(`^(error|warning) ([A-Za-z]+\d+): (.*)$`)

// summaryLine matches pure banner/summary output that carries no diagnostic
// content of its own.
var summaryLine = regexp.MustCompile(`^(Found \d+ errors?|\d+ errors? found|Watching for file changes|File change detected|Starting compilation|Compilation complete)`)

// Parse turns raw compiler text output into structured diagnostics, one per
// primary line. Indented lines continue the previous diagnostic's message.
// Unclassifiable lines become low-confidence diagnostics so nothing the
// compiler said is silently lost.
func Parse(raw string) []Diagnostic {
	var diags []Diagnostic

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		// Continuation: elaboration lines are indented under their parent.
		if len(diags) > 0 && (strings.HasPrefix(trimmed, " ") || strings.HasPrefix(trimmed, "\t")) {
			last := &diags[len(diags)-1]
			last.Message += "\n" + strings.TrimSpace(trimmed)
			continue
		}

		if m := primaryLine.FindStringSubmatch(trimmed); m != nil {
			lineNo, _ := strconv.Atoi(m[2])
			colNo, _ := strconv.Atoi(m[3])
			diags = append(diags, Diagnostic{
				File:       m[1],
				Line:       lineNo,
				Column:     colNo,
				Severity:   MustNewSeverity(m[4]),
				Code:       m[5],
				Message:    m[6],
				Confidence: ConfidenceHigh,
			})
			continue
		}

		if m := globalLine.FindStringSubmatch(trimmed); m != nil {
			diags = append(diags, Diagnostic{
				Severity:   MustNewSeverity(m[1]),
				Code:       m[2],
				Message:    m[3],
				Confidence: ConfidenceHigh,
			})
			continue
		}

		if summaryLine.MatchString(trimmed) {
			continue
		}

		// Unclassifiable. Keep it visible rather than guessing it away.
		diags = append(diags, Diagnostic{
			Severity:   SevWarning,
			Message:    trimmed,
			Confidence: ConfidenceLow,
		})
	}

	return diags
}

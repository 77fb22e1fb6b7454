package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/tscheck-dev/tscheck/internal/diagnostics"
	"github.com/tscheck-dev/tscheck/internal/engine"
	"github.com/tscheck-dev/tscheck/internal/version"
)

// SARIFFormatter formats check results as SARIF 2.1.0 JSON, mapping each
// compiler code to a rule and each diagnostic to a result with a physical
// location.
type SARIFFormatter struct {
	writer io.Writer
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(w io.Writer) *SARIFFormatter {
	return &SARIFFormatter{writer: w}
}

// Format writes the check result as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(result *engine.CheckResult) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("tscheck", "https://github.com/tscheck-dev/tscheck")
	ver := version.Get().Version
	run.Tool.Driver.Version = &ver

	f.addRules(run, result.Diagnostics)
	for _, d := range result.Diagnostics {
		run.AddResult(f.mapDiagnostic(d))
	}

	report.AddRun(run)
	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

// addRules registers one rule per distinct diagnostic code.
func (f *SARIFFormatter) addRules(run *sarif.Run, diags []diagnostics.Diagnostic) {
	seen := map[string]bool{}
	for _, d := range diags {
		code := ruleID(d)
		if seen[code] {
			continue
		}
		seen[code] = true

		rule := sarif.NewReportingDescriptor().WithID(code)
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: sarifLevel(d),
		})
		run.Tool.Driver.AddRule(rule)
	}
}

func (f *SARIFFormatter) mapDiagnostic(d diagnostics.Diagnostic) *sarif.Result {
	result := sarif.NewRuleResult(ruleID(d))
	result.Level = sarifLevel(d)
	msg := d.Message
	result.Message = sarif.NewTextMessage(msg)

	if d.File != "" {
		pLoc := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithURI(normalizeURI(d.File)))
		if d.Line > 0 {
			region := sarif.NewRegion().WithStartLine(d.Line)
			if d.Column > 0 {
				region.WithStartColumn(d.Column)
			}
			pLoc.WithRegion(region)
		}
		result.Locations = []*sarif.Location{sarif.NewLocation().WithPhysicalLocation(pLoc)}
	}
	return result
}

func ruleID(d diagnostics.Diagnostic) string {
	if d.Code != "" {
		return d.Code
	}
	return "unclassified"
}

func sarifLevel(d diagnostics.Diagnostic) string {
	if d.Severity.IsError() {
		return "error"
	}
	if d.Confidence == diagnostics.ConfidenceLow {
		return "note"
	}
	return "warning"
}

// normalizeURI converts a diagnostic file path to a SARIF-compliant URI.
func normalizeURI(path string) string {
	if filepath.IsAbs(path) {
		return "file://" + filepath.ToSlash(path)
	}
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", "/")
}

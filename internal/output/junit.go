package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tscheck-dev/tscheck/internal/engine"
)

// JUnitFormatter formats check results as JUnit XML, one testsuite per
// configuration group and one testcase per checked file.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{writer: w}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

// Format writes the check result as JUnit XML.
func (f *JUnitFormatter) Format(result *engine.CheckResult) error {
	suites := JUnitTestSuites{
		Name: "tscheck",
		Time: result.Duration.Seconds(),
	}

	for _, g := range result.Groups {
		suite := JUnitTestSuite{
			Name: g.ConfigPath,
			Time: g.Duration.Seconds(),
		}

		// Compiler output paths are relative to the project directory;
		// group members are absolute. Key on absolute paths to match.
		projectDir := filepath.Dir(g.ConfigPath)
		diagsByFile := map[string][]string{}
		for _, d := range g.Diagnostics {
			if !d.Severity.IsError() {
				continue
			}
			key := d.File
			if key != "" && !filepath.IsAbs(key) {
				key = filepath.Join(projectDir, filepath.FromSlash(key))
			}
			diagsByFile[key] = append(diagsByFile[key], d.String())
		}

		for _, file := range g.Files {
			tc := JUnitTestCase{Name: file, ClassName: g.ConfigPath}
			if g.Err != nil {
				tc.Error = &JUnitError{Message: g.ErrMessage}
			} else if msgs := diagsByFile[file]; len(msgs) > 0 {
				tc.Failure = &JUnitFailure{
					Message: fmt.Sprintf("%d type error(s)", len(msgs)),
					Content: joinLines(msgs),
				}
			}
			suite.Tests++
			if tc.Failure != nil {
				suite.Failures++
			}
			if tc.Error != nil {
				suite.Errors++
			}
			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	if _, err := f.writer.Write([]byte(xml.Header)); err != nil {
		return err
	}
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return fmt.Errorf("failed to encode JUnit output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

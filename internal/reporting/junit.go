package reporting

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/llmrec/recjudge/internal/models"
)

// DefaultMaxError is the largest |rating - reward| a record may have before
// it is reported as a failure.
const DefaultMaxError = 1.0

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one scoring run.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one rating.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents a reward too far from the user's rating.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a rating that could not be scored.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a RunSummary to JUnit XML format. A record fails
// when its absolute error exceeds maxError.
func ConvertToJUnit(summary *models.RunSummary, maxError float64) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      "recjudge " + summary.RunID,
		Tests:     len(summary.Records) + len(summary.Skipped),
		Skipped:   len(summary.Skipped),
		Timestamp: summary.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "weights", Value: summary.Weights.String()},
			{Name: "mae", Value: fmt.Sprintf("%.4f", summary.MAE)},
			{Name: "std", Value: fmt.Sprintf("%.4f", summary.StdDev)},
			{Name: "max_error", Value: fmt.Sprintf("%.2f", maxError)},
		},
	}

	for _, r := range summary.Records {
		tc := JUnitTestCase{
			Name:      r.MovieName,
			Classname: "user." + r.UserID,
		}
		if math.Abs(r.Residual()) > maxError {
			tc.Failure = buildFailure(r)
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	for _, s := range summary.Skipped {
		suite.TestCases = append(suite.TestCases, JUnitTestCase{
			Name:      s.Rating.Movie,
			Classname: "user." + s.Rating.UserID,
			Skipped:   &JUnitSkipped{Message: s.Reason},
		})
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

func buildFailure(r models.RewardRecord) *JUnitFailure {
	var body string
	for _, kind := range models.StageKinds {
		sr := r.Result.Stage(kind)
		body += fmt.Sprintf("%s: %.2f (weight %.2f)", kind, sr.Score, r.Result.Weights.For(kind))
		if sr.Defaulted {
			body += " [default]"
		}
		body += "\n"
	}

	return &JUnitFailure{
		Message: fmt.Sprintf("%s: rating=%.1f reward=%.2f", r.MovieName, r.UserRating, r.Reward),
		Type:    "RewardMismatch",
		Body:    body,
	}
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(summary *models.RunSummary, maxError float64, path string) error {
	suites := ConvertToJUnit(summary, maxError)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}

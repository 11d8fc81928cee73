package report

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ldptw/internal/domain"
	"ldptw/internal/parser"
)

// ErrReportMissing is returned when the suite left no report behind
var ErrReportMissing = errors.New("test suite report not found")

// Failure is a test method that was expected to pass but did not
type Failure struct {
	domain.TestMethod
}

// Message formats the failure as "name: description", then exception class and message
func (f Failure) Message() string {
	var class, msg string
	if f.Exception != nil {
		class = f.Exception.Class
		msg = f.Exception.Message
	}
	return fmt.Sprintf("%s: %s\n%s\n%s", f.Name, f.Description, class, msg)
}

// Verdict splits a report into passing, failing and pending methods
type Verdict struct {
	Passed   []domain.TestMethod
	Failures []Failure
	Pending  []domain.TestMethod
}

// OK reports whether no method failed
func (v *Verdict) OK() bool {
	return len(v.Failures) == 0
}

// Total returns the number of methods covered by the verdict
func (v *Verdict) Total() int {
	return len(v.Passed) + len(v.Failures) + len(v.Pending)
}

// Evaluate applies the pass check to every method of r.
// SKIP methods and skip-listed names are pending; every other method must be PASS.
func Evaluate(r *domain.Report, skip domain.SkipList) *Verdict {
	v := &Verdict{}
	for _, m := range r.Methods {
		if m.Status == domain.StatusSkip || skip.Contains(m.Name) {
			v.Pending = append(v.Pending, m)
			continue
		}
		if m.Status != domain.StatusPass {
			v.Failures = append(v.Failures, Failure{TestMethod: m})
			continue
		}
		v.Passed = append(v.Passed, m)
	}
	return v
}

// Load parses the report at path, returning ErrReportMissing if it does not exist
func Load(path string) (*domain.Report, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrReportMissing, path)
		}
		return nil, err
	}
	return parser.NewTestNGParser().ParseFile(path)
}

// Remove deletes a stale report so the next run cannot be judged on it
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale report: %w", err)
	}
	return nil
}

// Summary renders failures as one block per method
func (v *Verdict) Summary() string {
	blocks := make([]string, 0, len(v.Failures))
	for _, f := range v.Failures {
		blocks = append(blocks, f.Message())
	}
	return strings.Join(blocks, "\n\n")
}

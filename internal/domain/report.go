package domain

// Status is the TestNG status of a test method.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
	StatusSkip Status = "SKIP"
)

// Exception is the exception recorded for a failed or skipped test method
type Exception struct {
	Class   string `json:"class"`
	Message string `json:"message"`
}

// TestMethod is a single test-method record of a TestNG report
type TestMethod struct {
	Name        string     `json:"name"`
	Class       string     `json:"class,omitempty"`
	Description string     `json:"description,omitempty"`
	Signature   string     `json:"signature,omitempty"`
	Status      Status     `json:"status"`
	DurationMS  int64      `json:"duration_ms,omitempty"`
	Exception   *Exception `json:"exception,omitempty"`
}

// Report is the ordered list of test methods found in a report file
type Report struct {
	Path    string
	Methods []TestMethod
}

// Counts returns the number of methods per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, m := range r.Methods {
		counts[m.Status]++
	}
	return counts
}

// SkipList is a set of test method names that are expected not to pass.
type SkipList map[string]struct{}

// NewSkipList builds a SkipList from names, ignoring empty entries.
func NewSkipList(names ...string) SkipList {
	s := make(SkipList, len(names))
	for _, n := range names {
		if n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Contains reports whether name is skip-listed.
func (s SkipList) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

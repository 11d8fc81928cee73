package domain

// MethodFailure is a test method that did not pass and was not expected to be skipped
type MethodFailure struct {
	TestMethod
	Resolved bool `json:"resolved,omitempty"` // Marked as looked-at in the failure viewer
}

// RunMeta contains metadata about a suite run
type RunMeta struct {
	Version         string  `json:"version"`
	Server          string  `json:"server"`
	Options         string  `json:"options"`
	ExitCode        int     `json:"exit_code"`
	Outcome         string  `json:"outcome"`
	TotalMethods    int     `json:"total_methods"`
	PassedMethods   int     `json:"passed_methods"`
	FailedMethods   int     `json:"failed_methods"`
	PendingMethods  int     `json:"pending_methods"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// RunRecord is the stored form of a finished run
type RunRecord struct {
	Meta     RunMeta         `json:"meta"`
	Failures []MethodFailure `json:"failures"`
	Pending  []TestMethod    `json:"pending"`
}

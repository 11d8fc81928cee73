package storage

import (
	"strings"
	"time"

	"ldptw/internal/domain"
	"ldptw/internal/report"
)

// Run is everything known about a finished suite invocation
type Run struct {
	Version string
	Options domain.SuiteOptions
	Result  *domain.RunResult
	Verdict *report.Verdict
	At      time.Time
}

// NewRecord builds the stored form of a run
func NewRecord(run Run) *domain.RunRecord {
	at := run.At
	if at.IsZero() {
		at = time.Now()
	}

	record := &domain.RunRecord{
		Meta: domain.RunMeta{
			Version:   run.Version,
			Server:    run.Options.Server,
			Options:   strings.Join(run.Options.Args(), " "),
			Timestamp: at.Format(time.RFC3339),
		},
		Failures: []domain.MethodFailure{},
		Pending:  []domain.TestMethod{},
	}

	if run.Result != nil {
		record.Meta.ExitCode = run.Result.ExitCode
		record.Meta.Outcome = run.Result.Outcome.String()
		record.Meta.Duration = run.Result.Duration.String()
		record.Meta.DurationSeconds = run.Result.Duration.Seconds()
	}

	if v := run.Verdict; v != nil {
		record.Meta.TotalMethods = v.Total()
		record.Meta.PassedMethods = len(v.Passed)
		record.Meta.FailedMethods = len(v.Failures)
		record.Meta.PendingMethods = len(v.Pending)
		for _, f := range v.Failures {
			record.Failures = append(record.Failures, domain.MethodFailure{TestMethod: f.TestMethod})
		}
		record.Pending = append(record.Pending, v.Pending...)
	}

	return record
}

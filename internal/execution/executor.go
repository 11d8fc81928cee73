package execution

import (
	"context"
	"fmt"

	"ldptw/internal/domain"
)

// Executor runs the LDP test suite and returns its result
type Executor interface {
	Run(ctx context.Context, opts domain.SuiteOptions) (*domain.RunResult, error)
}

// ExecError is returned by Check for any suite run that did not exit with 0
type ExecError struct {
	Result *domain.RunResult
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("failed to execute ldp testsuite: %s", e.Result.Output)
}

// Check turns a non-zero exit into an *ExecError carrying the whole output
func Check(result *domain.RunResult) error {
	if result.Success() {
		return nil
	}
	return &ExecError{Result: result}
}

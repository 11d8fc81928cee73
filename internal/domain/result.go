package domain

import (
	"bytes"
	"io"
	"time"
)

// Exit codes reported by the LDP test suite jar.
//
// * Success (0): the suite ran and every test passed
// * HardError (1): the suite could not run (bad arguments, unreachable server, ...)
// * SuiteFailure (2 and above): the suite ran and some of its tests failed
const (
	ExitSuccess      = 0
	ExitHardError    = 1
	ExitSuiteFailure = 2
)

// Outcome classifies a finished suite process by its exit code.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeHardError
	OutcomeSuiteFailures
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeHardError:
		return "hard-error"
	case OutcomeSuiteFailures:
		return "suite-failures"
	}
	return "unknown"
}

// ClassifyExit maps a process exit code to an Outcome.
func ClassifyExit(code int) Outcome {
	switch {
	case code == ExitSuccess:
		return OutcomeSuccess
	case code >= ExitSuiteFailure:
		return OutcomeSuiteFailures
	default:
		// 1 and signal terminations (-1)
		return OutcomeHardError
	}
}

// RunResult is the result of one suite process.
type RunResult struct {
	Args     []string      // Full argv, launcher included
	PID      int           // Process id of the suite process
	ExitCode int           // Process exit code
	Outcome  Outcome       // Classified exit code
	Output   []byte        // Combined stdout and stderr
	Duration time.Duration // Wall time of the process
}

// Reader returns the captured output positioned at its start.
func (r *RunResult) Reader() io.Reader {
	return bytes.NewReader(r.Output)
}

// Success reports whether the suite exited with code 0.
func (r *RunResult) Success() bool {
	return r.Outcome == OutcomeSuccess
}

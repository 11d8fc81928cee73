package install

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactMissing is returned when the build finished but produced no suite jar
	ErrArtifactMissing = errors.New("built test suite jar not found")
	// ErrUnsafeArchivePath is returned for archive entries that would land outside the extraction directory
	ErrUnsafeArchivePath = errors.New("archive entry escapes extraction directory")
)

// SetupError is an unrecoverable failure while downloading or unpacking the suite
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// BuildError is returned when the build command exits unsuccessfully
type BuildError struct {
	Dir    string
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build in %s failed: %v\n%s", e.Dir, e.Err, e.Output)
}

func (e *BuildError) Unwrap() error { return e.Err }

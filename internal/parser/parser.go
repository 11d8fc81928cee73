package parser

import (
	"io"

	"ldptw/internal/domain"
)

// Parser parses a suite report into test-method records
type Parser interface {
	Parse(r io.Reader) (*domain.Report, error)
	ParseFile(path string) (*domain.Report, error)
}

package ldptest

import (
	"ldptw/internal/config"
	"ldptw/internal/domain"
	"ldptw/internal/report"
)

// Aliases so callers outside this module can name the harness types.
type (
	Config        = config.Config
	SuiteOptions  = domain.SuiteOptions
	ContainerType = domain.ContainerType
	Report        = domain.Report
	TestMethod    = domain.TestMethod
	Verdict       = report.Verdict
)

const (
	BasicContainer    = domain.BasicContainer
	DirectContainer   = domain.DirectContainer
	IndirectContainer = domain.IndirectContainer
)

// NewConfig returns the default configuration
func NewConfig() *Config {
	return config.New()
}

// LoadConfig reads .ldptw.yaml, .env and LDPTW_* variables the way the CLI does
func LoadConfig() (*Config, error) {
	return config.Load(config.Flags{})
}

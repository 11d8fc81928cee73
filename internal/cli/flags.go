package cli

import "ldptw/internal/config"

// Flags holds command-line flags
type Flags struct {
	ConfigFile      string
	EnvFile         string
	Verbose         bool
	Version         string
	URL             string
	DownloadDir     string
	DownloadPath    string
	InstanceDir     string
	Server          string
	Basic           bool
	Direct          bool
	Indirect        bool
	NonRDF          bool
	Skip            []string
	Filter          string
	ReportPath      string
	CreateContainer bool
	OpenFailures    bool
	HistoryDSN      string
	Limit           int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:      f.ConfigFile,
		EnvFile:         f.EnvFile,
		Verbose:         f.Verbose,
		Version:         f.Version,
		URL:             f.URL,
		DownloadDir:     f.DownloadDir,
		DownloadPath:    f.DownloadPath,
		InstanceDir:     f.InstanceDir,
		Server:          f.Server,
		Basic:           f.Basic,
		Direct:          f.Direct,
		Indirect:        f.Indirect,
		NonRDF:          f.NonRDF,
		Skip:            append([]string(nil), f.Skip...),
		Filter:          f.Filter,
		ReportPath:      f.ReportPath,
		CreateContainer: f.CreateContainer,
		OpenFailures:    f.OpenFailures,
		HistoryDSN:      f.HistoryDSN,
		Limit:           f.Limit,
	}
}

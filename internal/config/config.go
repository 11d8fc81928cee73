package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ldptw/internal/domain"
)

// Config holds all configuration for one suite instance
type Config struct {
	// Suite source
	Version      string `yaml:"version"`
	URL          string `yaml:"url,omitempty"`
	DownloadDir  string `yaml:"download_dir,omitempty"`
	DownloadPath string `yaml:"download_path,omitempty"`
	InstanceDir  string `yaml:"instance_dir,omitempty"`

	// Build and launch settings
	JavaBinary   string            `yaml:"java_binary"`
	BuildCommand string            `yaml:"build_command"`
	Verbose      bool              `yaml:"verbose"`
	Env          map[string]string `yaml:"env,omitempty"`
	EnvFile      string            `yaml:"env_file,omitempty"`

	// Suite run settings
	Server     string              `yaml:"server,omitempty"`
	Suite      domain.SuiteOptions `yaml:"suite,omitempty"`
	SkipTests  []string            `yaml:"skip_tests,omitempty"`
	ReportPath string              `yaml:"report_path"`

	// Output settings
	ProjectPath    string `yaml:"-"`
	OutputJSONFile string `yaml:"output_json_file"`
	OutputJSONDir  string `yaml:"output_json_dir"`
	HistoryDSN     string `yaml:"history_dsn,omitempty"`

	// Command flags
	Flags Flags `yaml:"-"`

	// Entries read from EnvFile
	fileEnv map[string]string
}

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

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		Version:        DefaultVersion,
		JavaBinary:     DefaultJavaBinary,
		BuildCommand:   DefaultBuildCommand,
		ReportPath:     DefaultReportPath,
		ProjectPath:    ".",
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Env:            map[string]string{},
	}
}

// Load creates a config from defaults, the YAML config file, the env file and flags, in that order
func Load(flags Flags) (*Config, error) {
	cfg := New()

	configFile := flags.ConfigFile
	if configFile == "" && fileExists(DefaultConfigFile) {
		configFile = DefaultConfigFile
	}
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return nil, err
		}
	}

	if flags.EnvFile != "" {
		cfg.EnvFile = flags.EnvFile
	} else if cfg.EnvFile == "" && fileExists(DefaultEnvFile) {
		cfg.EnvFile = DefaultEnvFile
	}
	if err := cfg.LoadEnvFile(); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	cfg.Apply(flags)
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto the config
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if c.Env == nil {
		c.Env = map[string]string{}
	}
	return nil
}

// LoadEnvFile reads EnvFile (if set) so its entries reach the suite process
func (c *Config) LoadEnvFile() error {
	if c.EnvFile == "" {
		return nil
	}
	env, err := godotenv.Read(c.EnvFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("env file %s does not exist", c.EnvFile)
		}
		return fmt.Errorf("read env file %s: %w", c.EnvFile, err)
	}
	c.fileEnv = env
	return nil
}

// applyEnvOverrides applies LDPTW_* variables from the env file and then the process environment
func (c *Config) applyEnvOverrides() {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := c.fileEnv[EnvPrefix+key]
		return v, ok
	}

	strs := map[string]*string{
		"VERSION":       &c.Version,
		"URL":           &c.URL,
		"DOWNLOAD_DIR":  &c.DownloadDir,
		"DOWNLOAD_PATH": &c.DownloadPath,
		"INSTANCE_DIR":  &c.InstanceDir,
		"JAVA_BINARY":   &c.JavaBinary,
		"BUILD_COMMAND": &c.BuildCommand,
		"SERVER":        &c.Server,
		"REPORT_PATH":   &c.ReportPath,
		"HISTORY_DSN":   &c.HistoryDSN,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("VERBOSE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Verbose = b
		}
	}
}

// Apply overrides config values with the flags that were set
func (c *Config) Apply(flags Flags) {
	c.Flags = flags

	if flags.Verbose {
		c.Verbose = true
	}
	if flags.Version != "" {
		c.Version = flags.Version
	}
	if flags.URL != "" {
		c.URL = flags.URL
	}
	if flags.DownloadDir != "" {
		c.DownloadDir = flags.DownloadDir
	}
	if flags.DownloadPath != "" {
		c.DownloadPath = flags.DownloadPath
	}
	if flags.InstanceDir != "" {
		c.InstanceDir = flags.InstanceDir
	}
	if flags.Server != "" {
		c.Server = flags.Server
	}
	if flags.ReportPath != "" {
		c.ReportPath = flags.ReportPath
	}
	if flags.HistoryDSN != "" {
		c.HistoryDSN = flags.HistoryDSN
	}
	c.SkipTests = append(c.SkipTests, flags.Skip...)
}

// SuiteOptions returns the configured suite options with the server and container flags applied
func (c *Config) SuiteOptions() domain.SuiteOptions {
	return c.Suite.Merge(domain.SuiteOptions{
		Server:   c.Server,
		Basic:    c.Flags.Basic,
		Direct:   c.Flags.Direct,
		Indirect: c.Flags.Indirect,
		NonRDF:   c.Flags.NonRDF,
	})
}

// SkipList returns the configured skip-listed test names
func (c *Config) SkipList() domain.SkipList {
	return domain.NewSkipList(c.SkipTests...)
}

// SubprocessEnv returns the environment for build and suite processes:
// the current environment, then the env file, then Env.
func (c *Config) SubprocessEnv() []string {
	env := os.Environ()
	env = append(env, sortedPairs(c.fileEnv)...)
	env = append(env, sortedPairs(c.Env)...)
	return env
}

// GetReportPath returns the absolute path of the suite's TestNG report
func (c *Config) GetReportPath() string {
	p := c.ReportPath
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.ProjectPath, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetOutputPath returns the full path to the last-run JSON file.
// Resolves to an absolute path so run and view always use the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func sortedPairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+m[k])
	}
	return pairs
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

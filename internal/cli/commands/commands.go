package commands

import (
	"fmt"
	"os"

	"ldptw/internal/cli"
	"ldptw/internal/config"
	"ldptw/internal/execution"
	"ldptw/internal/fetch"
	"ldptw/internal/install"
	"ldptw/internal/ldp"
	"ldptw/internal/report"
	"ldptw/internal/storage"
	"ldptw/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Install *InstallCommand
	Run     *RunCommand
	Report  *ReportCommand
	List    *ListCommand
	View    *ViewCommand
	History *HistoryCommand
	Clean   *CleanCommand
	Version *VersionCommand
}

// ExitError carries the process exit code for a command that finished with suite failures
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// NewCommands creates all commands with dependencies.
// Dependencies read cfg lazily, so flags applied in PreRunE reach them.
func NewCommands(cfg *config.Config) *Commands {
	fetcher := fetch.NewFetcher(nil, ui.DownloadProgress)
	builder := install.NewConfigBuilder(cfg, os.Stderr)
	instance := install.NewInstance(cfg, fetcher, builder, os.Stdout)
	runner := execution.NewRunner(cfg, instance, os.Stderr)
	filter := report.NewFilter()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(os.Stdout)
	errorViewer := ui.NewErrorViewer(jsonStorage)
	client := ldp.NewClient(nil)

	return &Commands{
		Install: NewInstallCommand(instance),
		Run:     NewRunCommand(cfg, runner, client, filter, jsonStorage, formatter, errorViewer),
		Report:  NewReportCommand(cfg, filter, formatter),
		List:    NewListCommand(cfg, filter, formatter),
		View:    NewViewCommand(jsonStorage, errorViewer),
		History: NewHistoryCommand(cfg, formatter),
		Clean:   NewCleanCommand(instance),
		Version: NewVersionCommand(cfg, instance),
	}
}

// Register registers all commands with cobra. The root command's PersistentPreRunE
// loads the configuration into cfg before any command runs.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flags.ToConfigFlags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		*cfg = *loaded
		return nil
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ConfigFile, "config", "", "YAML config file (default "+config.DefaultConfigFile+" if present)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Env file passed to the build and suite processes (default "+config.DefaultEnvFile+" if present)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Stream build and suite output")
	pf.StringVar(&flags.HistoryDSN, "history-dsn", "", "MySQL DSN for the run history (e.g. user:pass@tcp(127.0.0.1:3306)/ldptw)")
	pf.StringVar(&flags.Version, "suite-version", "", "LDP test suite version (default "+config.DefaultVersion+")")
	pf.StringVar(&flags.URL, "url", "", "Archive URL (default "+config.DefaultBaseURL+"/<version>.zip)")
	pf.StringVar(&flags.DownloadDir, "download-dir", "", "Directory for the downloaded archive (default system temp dir)")
	pf.StringVar(&flags.DownloadPath, "download-path", "", "Exact path of the downloaded archive")
	pf.StringVar(&flags.InstanceDir, "instance-dir", "", "Directory the suite is installed and built in")

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Download and build the LDP test suite",
		Long:  "Download the versioned LDP test suite archive, extract it and build the shaded jar. Does nothing when already built.",
		Args:  cobra.NoArgs,
		RunE:  c.Install.Execute,
	}
	rootCmd.AddCommand(installCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the LDP test suite against a server",
		Long:  "Install the suite if needed, run it against --server and check every test method in the report",
		Args:  cobra.NoArgs,
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().StringVarP(&flags.Server, "server", "s", "", "URL of the LDP container under test")
	runCmd.Flags().BoolVar(&flags.Basic, "basic", false, "Test a basic container")
	runCmd.Flags().BoolVar(&flags.Direct, "direct", false, "Test a direct container")
	runCmd.Flags().BoolVar(&flags.Indirect, "indirect", false, "Test an indirect container")
	runCmd.Flags().BoolVar(&flags.NonRDF, "non-rdf", false, "Include non-RDF source tests")
	runCmd.MarkFlagsMutuallyExclusive("basic", "direct", "indirect")
	runCmd.Flags().StringArrayVar(&flags.Skip, "skip", nil, "Test method expected not to pass (repeatable)")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only check test methods matching the pattern (supports wildcards, e.g. 'testPut*' or '*Container*')")
	runCmd.Flags().StringVar(&flags.ReportPath, "report", "", "Report file written by the suite (default "+config.DefaultReportPath+")")
	runCmd.Flags().BoolVar(&flags.CreateContainer, "create-container", false, "PUT a fresh container under --server and test that instead")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failure viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Check an existing suite report",
		Long:  "Parse a TestNG report left by a previous suite run and check every test method",
		Args:  cobra.NoArgs,
		RunE:  c.Report.Execute,
	}
	reportCmd.Flags().StringVar(&flags.ReportPath, "report", "", "Report file to read (default "+config.DefaultReportPath+")")
	reportCmd.Flags().StringArrayVar(&flags.Skip, "skip", nil, "Test method expected not to pass (repeatable)")
	reportCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only check test methods matching the pattern")
	rootCmd.AddCommand(reportCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List test methods in the last report",
		Long:  "List the test methods of a suite report grouped by class, marking failures",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVar(&flags.ReportPath, "report", "", "Report file to read (default "+config.DefaultReportPath+")")
	listCmd.Flags().StringArrayVar(&flags.Skip, "skip", nil, "Test method expected not to pass (repeatable)")
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only list test methods matching the pattern")
	rootCmd.AddCommand(listCmd)

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "View test failures interactively",
		Long:  "Display the failures of the last run in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.View.Execute,
	}
	rootCmd.AddCommand(viewCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Long:  "Create the run history tables if needed and list the most recent runs (requires --history-dsn)",
		Args:  cobra.NoArgs,
		RunE:  c.History.Execute,
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the downloaded and built suite",
		Args:  cobra.NoArgs,
		RunE:  c.Clean.Execute,
	}
	rootCmd.AddCommand(cleanCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show the configured and installed suite versions",
		Args:  cobra.NoArgs,
		RunE:  c.Version.Execute,
	}
	rootCmd.AddCommand(versionCmd)
}

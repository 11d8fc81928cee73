package commands

import (
	"context"
	"errors"
	"fmt"

	"ldptw/internal/config"
	"ldptw/internal/domain"
	"ldptw/internal/execution"
	"ldptw/internal/report"
	"ldptw/internal/storage"
	"ldptw/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ResourceCreator creates a fresh resource on the server under test
type ResourceCreator interface {
	CreateResource(ctx context.Context, server string, containerType domain.ContainerType) (string, error)
}

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	executor  execution.Executor
	client    ResourceCreator
	filter    *report.Filter
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	executor execution.Executor,
	client ResourceCreator,
	filter *report.Filter,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		executor:  executor,
		client:    client,
		filter:    filter,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := rc.config.SuiteOptions()
	opts.Output = opts.Output || rc.config.Verbose
	if opts.Server == "" {
		return errors.New("no server configured: pass --server or set server in the config file")
	}

	if rc.config.Flags.CreateContainer {
		url, err := rc.client.CreateResource(ctx, opts.Server, opts.ContainerType())
		if err != nil {
			return err
		}
		color.Cyan("Created %s", url)
		opts.Server = url
	}

	reportPath := rc.config.GetReportPath()
	if err := report.Remove(reportPath); err != nil {
		return err
	}

	color.Cyan("Running LDP test suite %s against %s", rc.config.Version, opts.Server)
	result, err := rc.executor.Run(ctx, opts)
	if err != nil {
		return err
	}
	// Exit codes >= 2 mean the suite ran and reported its own failures; the report has the details
	if result.Outcome == domain.OutcomeHardError {
		return execution.Check(result)
	}

	rep, err := report.Load(reportPath)
	if err != nil {
		return err
	}
	rc.filter.Apply(rep, rc.config.Flags.Filter)
	verdict := report.Evaluate(rep, rc.config.SkipList())

	record := storage.NewRecord(storage.Run{
		Version: rc.config.Version,
		Options: opts,
		Result:  result,
		Verdict: verdict,
	})
	if err := rc.storage.Save(record); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	if err := rc.saveHistory(ctx, record); err != nil {
		color.Yellow("Run history not updated: %v", err)
	}

	rc.formatter.PrintSummary(record)
	if rc.config.Verbose {
		rc.formatter.PrintFailureMessages(record.Failures)
	}

	if verdict.OK() {
		return nil
	}
	if rc.config.Flags.OpenFailures && rc.viewer != nil {
		if err := rc.viewer.View(record); err != nil {
			return err
		}
	}
	return suiteFailed(result, verdict)
}

func (rc *RunCommand) saveHistory(ctx context.Context, record *domain.RunRecord) error {
	if rc.config.HistoryDSN == "" {
		return nil
	}
	history, err := storage.OpenMySQL(ctx, rc.config.HistoryDSN)
	if err != nil {
		return err
	}
	defer history.Close()
	return history.Save(record)
}

// suiteFailed reports failed methods with the suite's own exit class
func suiteFailed(result *domain.RunResult, verdict *report.Verdict) error {
	code := domain.ExitSuiteFailure
	if result != nil && result.ExitCode >= domain.ExitSuiteFailure {
		code = result.ExitCode
	}
	return &ExitError{
		Code: code,
		Err:  fmt.Errorf("%d test method(s) failed", len(verdict.Failures)),
	}
}

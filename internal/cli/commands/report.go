package commands

import (
	"ldptw/internal/config"
	"ldptw/internal/report"
	"ldptw/internal/storage"
	"ldptw/internal/ui"

	"github.com/spf13/cobra"
)

// ReportCommand handles the report command
type ReportCommand struct {
	config    *config.Config
	filter    *report.Filter
	formatter *ui.Formatter
}

// NewReportCommand creates a new ReportCommand
func NewReportCommand(cfg *config.Config, filter *report.Filter, formatter *ui.Formatter) *ReportCommand {
	return &ReportCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (rc *ReportCommand) Execute(cmd *cobra.Command, args []string) error {
	rep, err := report.Load(rc.config.GetReportPath())
	if err != nil {
		return err
	}
	rc.filter.Apply(rep, rc.config.Flags.Filter)
	verdict := report.Evaluate(rep, rc.config.SkipList())

	record := storage.NewRecord(storage.Run{
		Version: rc.config.Version,
		Options: rc.config.SuiteOptions(),
		Verdict: verdict,
	})
	rc.formatter.PrintSummary(record)
	rc.formatter.PrintFailureMessages(record.Failures)

	if !verdict.OK() {
		return suiteFailed(nil, verdict)
	}
	return nil
}

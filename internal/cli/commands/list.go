package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ldptw/internal/config"
	"ldptw/internal/report"
	"ldptw/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *report.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, filter *report.Filter, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	rep, err := report.Load(lc.config.GetReportPath())
	if err != nil {
		return err
	}

	methods := lc.filter.FilterByName(rep.Methods, lc.config.Flags.Filter)
	if len(methods) == 0 {
		color.Yellow("No test methods found")
		return nil
	}

	lc.formatter.PrintMethodList(methods, lc.config.SkipList())
	return nil
}

package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"ldptw/internal/config"
	"ldptw/internal/storage"
	"ldptw/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	config    *config.Config
	formatter *ui.Formatter
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(cfg *config.Config, formatter *ui.Formatter) *HistoryCommand {
	return &HistoryCommand{
		config:    cfg,
		formatter: formatter,
	}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	if hc.config.HistoryDSN == "" {
		return errors.New("no run history configured: pass --history-dsn or set history_dsn in the config file")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	history, err := storage.OpenMySQL(ctx, hc.config.HistoryDSN)
	if err != nil {
		return err
	}
	defer history.Close()

	runs, err := history.Recent(hc.config.Flags.Limit)
	if err != nil {
		return err
	}
	hc.formatter.PrintHistory(runs)
	return nil
}

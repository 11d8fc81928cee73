package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Cleaner removes everything an installation put on disk
type Cleaner interface {
	Clean() error
}

// CleanCommand handles the clean command
type CleanCommand struct {
	cleaner Cleaner
}

// NewCleanCommand creates a new CleanCommand
func NewCleanCommand(cleaner Cleaner) *CleanCommand {
	return &CleanCommand{cleaner: cleaner}
}

// Execute runs the command
func (cc *CleanCommand) Execute(cmd *cobra.Command, args []string) error {
	if err := cc.cleaner.Clean(); err != nil {
		return err
	}
	color.Green("✓ Removed downloaded and built suite artifacts")
	return nil
}

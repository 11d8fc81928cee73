package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Installer downloads and builds the suite
type Installer interface {
	ExtractAndConfigure(ctx context.Context) (string, error)
}

// InstallCommand handles the install command
type InstallCommand struct {
	installer Installer
}

// NewInstallCommand creates a new InstallCommand
func NewInstallCommand(installer Installer) *InstallCommand {
	return &InstallCommand{installer: installer}
}

// Execute runs the command
func (ic *InstallCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	dir, err := ic.installer.ExtractAndConfigure(ctx)
	if err != nil {
		return err
	}
	color.Green("✓ LDP test suite ready in %s", dir)
	return nil
}

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ldptw/internal/config"
	"ldptw/internal/install"
)

// VersionCommand handles the version command
type VersionCommand struct {
	config   *config.Config
	instance *install.Instance
}

// NewVersionCommand creates a new VersionCommand
func NewVersionCommand(cfg *config.Config, instance *install.Instance) *VersionCommand {
	return &VersionCommand{
		config:   cfg,
		instance: instance,
	}
}

// Execute runs the command
func (vc *VersionCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", cmd.Root().Name(), cmd.Root().Version)
	fmt.Fprintf(out, "suite version:     %s\n", vc.config.Version)

	installed := vc.instance.InstalledVersion()
	if installed == "" {
		fmt.Fprintf(out, "installed version: %s\n", color.YellowString("not installed"))
	} else {
		fmt.Fprintf(out, "installed version: %s\n", installed)
	}
	fmt.Fprintf(out, "install dir:       %s\n", vc.instance.Paths().InstanceDir)
	return nil
}

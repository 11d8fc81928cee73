package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ldptw/internal/cli"
	"ldptw/internal/cli/commands"
	"ldptw/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "ldptw",
		Short:         "W3C LDP test suite wrapper",
		Long:          `Downloads, builds and runs the W3C Linked Data Platform test suite against a server, then checks every test method in its TestNG report.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Populated in PersistentPreRunE from the config file, env file and flags
	cfg := config.New()

	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

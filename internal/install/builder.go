package install

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"ldptw/internal/config"
)

// Builder builds the suite inside its install directory
type Builder interface {
	Build(ctx context.Context, dir string) ([]byte, error)
}

// CommandBuilder runs an external build command such as "mvn package"
type CommandBuilder struct {
	Command []string
	Env     []string
	// Stream, when set, receives the build output as it is produced
	Stream io.Writer
}

// NewCommandBuilder creates a CommandBuilder from a whitespace separated command line
func NewCommandBuilder(command string, env []string) *CommandBuilder {
	return &CommandBuilder{Command: strings.Fields(command), Env: env}
}

// Build runs the command in dir and returns its combined output
func (b *CommandBuilder) Build(ctx context.Context, dir string) ([]byte, error) {
	if len(b.Command) == 0 {
		return nil, fmt.Errorf("no build command configured")
	}

	cmd := exec.CommandContext(ctx, b.Command[0], b.Command[1:]...)
	cmd.Dir = dir
	cmd.Env = b.Env

	var buf bytes.Buffer
	if b.Stream != nil {
		cmd.Stdout = io.MultiWriter(&buf, b.Stream)
	} else {
		cmd.Stdout = &buf
	}
	cmd.Stderr = cmd.Stdout

	err := cmd.Run()
	return buf.Bytes(), err
}

// ConfigBuilder runs the configured build command with the suite environment.
// The command is read from the config at build time.
type ConfigBuilder struct {
	config *config.Config
	stream io.Writer
}

// NewConfigBuilder creates a ConfigBuilder; verbose configs stream build output to stream
func NewConfigBuilder(cfg *config.Config, stream io.Writer) *ConfigBuilder {
	return &ConfigBuilder{config: cfg, stream: stream}
}

// Build runs the configured build command in dir
func (b *ConfigBuilder) Build(ctx context.Context, dir string) ([]byte, error) {
	cb := NewCommandBuilder(b.config.BuildCommand, b.config.SubprocessEnv())
	if b.config.Verbose {
		cb.Stream = b.stream
	}
	return cb.Build(ctx, dir)
}

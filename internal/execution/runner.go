package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/acarl005/stripansi"

	"ldptw/internal/config"
	"ldptw/internal/domain"
	"ldptw/internal/install"
)

// Installation prepares the suite jar before a run
type Installation interface {
	ExtractAndConfigure(ctx context.Context) (string, error)
	Paths() install.Paths
	Track(s install.Stopper)
}

// Runner launches the built LDP test suite jar
type Runner struct {
	config  *config.Config
	install Installation
	diag    io.Writer

	mu  sync.Mutex
	cmd *exec.Cmd
}

var _ Executor = (*Runner)(nil)

// NewRunner creates a new Runner. Live suite output goes to diag (stderr when nil).
func NewRunner(cfg *config.Config, inst Installation, diag io.Writer) *Runner {
	if diag == nil {
		diag = os.Stderr
	}
	return &Runner{config: cfg, install: inst, diag: diag}
}

// Run executes the suite with the configured options overlaid by opts
func (r *Runner) Run(ctx context.Context, opts domain.SuiteOptions) (*domain.RunResult, error) {
	merged := r.config.Suite.Merge(opts)
	return r.RunArgs(ctx, merged.Args(), merged.Output)
}

// Exec runs the suite and returns its output positioned at the start.
// Any non-zero exit is returned as an *ExecError.
func (r *Runner) Exec(ctx context.Context, opts domain.SuiteOptions) (io.Reader, error) {
	result, err := r.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := Check(result); err != nil {
		return nil, err
	}
	return result.Reader(), nil
}

// RunArgs executes the suite with args passed verbatim after the jar.
// With passthrough set and a verbose config, output is also mirrored live.
func (r *Runner) RunArgs(ctx context.Context, args []string, passthrough bool) (*domain.RunResult, error) {
	if _, err := r.install.ExtractAndConfigure(ctx); err != nil {
		return nil, err
	}

	argv := append([]string{r.config.JavaBinary, "-jar", r.install.Paths().Binary}, args...)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = r.config.SubprocessEnv()
	cmd.Dir = r.config.ProjectPath

	// Same writer for both streams keeps stdout and stderr interleaved in order
	var buf bytes.Buffer
	var out io.Writer = &buf
	if r.config.Verbose && passthrough {
		out = io.MultiWriter(&buf, r.diag)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start test suite: %w", err)
	}
	r.track(cmd)
	r.install.Track(r)

	waitErr := cmd.Wait()
	r.untrack()

	result := &domain.RunResult{
		Args:     argv,
		PID:      cmd.Process.Pid,
		Output:   []byte(stripansi.Strip(buf.String())),
		Duration: time.Since(startTime),
	}

	if waitErr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("test suite interrupted: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("wait for test suite: %w", waitErr)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	result.Outcome = domain.ClassifyExit(result.ExitCode)

	return result, nil
}

// PID returns the process id of the running suite, or 0 when none is running
func (r *Runner) PID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd == nil || r.cmd.Process == nil {
		return 0
	}
	return r.cmd.Process.Pid
}

// Stop kills the running suite process, if any
func (r *Runner) Stop() error {
	r.mu.Lock()
	cmd := r.cmd
	r.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (r *Runner) track(cmd *exec.Cmd) {
	r.mu.Lock()
	r.cmd = cmd
	r.mu.Unlock()
}

func (r *Runner) untrack() {
	r.mu.Lock()
	r.cmd = nil
	r.mu.Unlock()
}

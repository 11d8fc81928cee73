package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldptw/internal/cli"
	"ldptw/internal/config"
	"ldptw/internal/domain"
	"ldptw/internal/execution"
	"ldptw/internal/report"
	"ldptw/internal/storage"
	"ldptw/internal/ui"
)

const passFailReport = `<testng-results>
  <class name="org.w3.ldp.testsuite.test.BasicContainerTest">
    <test-method status="PASS" name="testGetResource"/>
    <test-method status="FAIL" name="testPutRequiresIfMatch" description="If-Match">
      <exception class="java.lang.AssertionError"><message>Expected 428</message></exception>
    </test-method>
  </class>
</testng-results>`

// fakeExecutor writes a canned report and exits with a fixed code
type fakeExecutor struct {
	reportPath string
	report     string
	exitCode   int
	opts       []domain.SuiteOptions
}

func (f *fakeExecutor) Run(_ context.Context, opts domain.SuiteOptions) (*domain.RunResult, error) {
	f.opts = append(f.opts, opts)
	if f.report != "" {
		if err := os.MkdirAll(filepath.Dir(f.reportPath), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(f.reportPath, []byte(f.report), 0644); err != nil {
			return nil, err
		}
	}
	return &domain.RunResult{
		ExitCode: f.exitCode,
		Outcome:  domain.ClassifyExit(f.exitCode),
		Output:   []byte("suite output"),
	}, nil
}

type fakeCreator struct {
	calls []domain.ContainerType
}

func (f *fakeCreator) CreateResource(_ context.Context, server string, ct domain.ContainerType) (string, error) {
	f.calls = append(f.calls, ct)
	return server + "/fresh", nil
}

type fakeViewer struct{ viewed int }

func (f *fakeViewer) View(*domain.RunRecord) error {
	f.viewed++
	return nil
}

type runFixture struct {
	cfg      *config.Config
	executor *fakeExecutor
	creator  *fakeCreator
	viewer   *fakeViewer
	store    *storage.JSONStorage
	out      *bytes.Buffer
	cmd      *RunCommand
}

func newRunFixture(t *testing.T, exitCode int, reportXML string) *runFixture {
	t.Helper()
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	cfg.Server = "http://localhost:8080/ldp"

	f := &runFixture{
		cfg:      cfg,
		executor: &fakeExecutor{reportPath: cfg.GetReportPath(), report: reportXML, exitCode: exitCode},
		creator:  &fakeCreator{},
		viewer:   &fakeViewer{},
		store:    storage.NewJSONStorage(cfg),
		out:      &bytes.Buffer{},
	}
	f.cmd = NewRunCommand(cfg, f.executor, f.creator, report.NewFilter(), f.store, ui.NewFormatter(f.out), f.viewer)
	return f
}

func TestRunCommand_SuiteFailures(t *testing.T) {
	f := newRunFixture(t, 3, passFailReport)
	f.cfg.Flags.OpenFailures = true

	err := f.cmd.Execute(&cobra.Command{}, nil)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code, "suite exit class is kept")
	assert.Contains(t, err.Error(), "1 test method(s) failed")
	assert.Equal(t, 1, f.viewer.viewed)

	record, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, record.Meta.FailedMethods)
	assert.Equal(t, "http://localhost:8080/ldp", record.Meta.Server)
	assert.Contains(t, f.out.String(), "testPutRequiresIfMatch")
}

func TestRunCommand_SkipListedFailurePasses(t *testing.T) {
	f := newRunFixture(t, 2, passFailReport)
	f.cfg.SkipTests = []string{"testPutRequiresIfMatch"}

	require.NoError(t, f.cmd.Execute(&cobra.Command{}, nil))
	assert.Zero(t, f.viewer.viewed)

	record, err := f.store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, record.Meta.PendingMethods)
}

func TestRunCommand_HardError(t *testing.T) {
	f := newRunFixture(t, 1, "")

	err := f.cmd.Execute(&cobra.Command{}, nil)

	var execErr *execution.ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Contains(t, err.Error(), "suite output")
}

func TestRunCommand_MissingReport(t *testing.T) {
	f := newRunFixture(t, 0, "")

	err := f.cmd.Execute(&cobra.Command{}, nil)
	assert.True(t, errors.Is(err, report.ErrReportMissing))
}

func TestRunCommand_StaleReportIsRemoved(t *testing.T) {
	f := newRunFixture(t, 0, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(f.cfg.GetReportPath()), 0755))
	require.NoError(t, os.WriteFile(f.cfg.GetReportPath(), []byte(passFailReport), 0644))

	err := f.cmd.Execute(&cobra.Command{}, nil)
	assert.True(t, errors.Is(err, report.ErrReportMissing), "a report from an earlier run must not be judged")
}

func TestRunCommand_CreateContainer(t *testing.T) {
	f := newRunFixture(t, 0, `<r><test-method status="PASS" name="a"/></r>`)
	f.cfg.Flags.CreateContainer = true
	f.cfg.Flags.Direct = true

	require.NoError(t, f.cmd.Execute(&cobra.Command{}, nil))

	assert.Equal(t, []domain.ContainerType{domain.DirectContainer}, f.creator.calls)
	require.Len(t, f.executor.opts, 1)
	assert.Equal(t, "http://localhost:8080/ldp/fresh", f.executor.opts[0].Server)
	assert.True(t, f.executor.opts[0].Direct)
}

func TestRunCommand_VerboseMirrorsSuiteOutput(t *testing.T) {
	f := newRunFixture(t, 0, `<r><test-method status="PASS" name="a"/></r>`)

	require.NoError(t, f.cmd.Execute(&cobra.Command{}, nil))
	f.cfg.Verbose = true
	require.NoError(t, f.cmd.Execute(&cobra.Command{}, nil))

	require.Len(t, f.executor.opts, 2)
	assert.False(t, f.executor.opts[0].Output)
	assert.True(t, f.executor.opts[1].Output)
}

func TestRunCommand_NoServer(t *testing.T) {
	f := newRunFixture(t, 0, "")
	f.cfg.Server = ""

	assert.ErrorContains(t, f.cmd.Execute(&cobra.Command{}, nil), "no server configured")
	assert.Empty(t, f.executor.opts)
}

func TestReportCommand(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.GetReportPath()), 0755))
	require.NoError(t, os.WriteFile(cfg.GetReportPath(), []byte(passFailReport), 0644))

	var out bytes.Buffer
	cmd := NewReportCommand(cfg, report.NewFilter(), ui.NewFormatter(&out))

	err := cmd.Execute(&cobra.Command{}, nil)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, domain.ExitSuiteFailure, exitErr.Code)
	assert.Contains(t, out.String(), "testPutRequiresIfMatch: If-Match")

	cfg.Flags.Filter = "testGet*"
	assert.NoError(t, cmd.Execute(&cobra.Command{}, nil), "filtered out failures are not checked")
}

func TestListCommand_MissingReport(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()

	err := NewListCommand(cfg, report.NewFilter(), ui.NewFormatter(&bytes.Buffer{})).Execute(&cobra.Command{}, nil)
	assert.True(t, errors.Is(err, report.ErrReportMissing))
}

func TestViewCommand_LoadsStoredRun(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	store := storage.NewJSONStorage(cfg)
	viewer := &fakeViewer{}
	cmd := NewViewCommand(store, viewer)

	assert.Error(t, cmd.Execute(&cobra.Command{}, nil), "nothing stored yet")

	require.NoError(t, store.Save(&domain.RunRecord{}))
	require.NoError(t, cmd.Execute(&cobra.Command{}, nil))
	assert.Equal(t, 1, viewer.viewed)
}

func TestHistoryCommand_RequiresDSN(t *testing.T) {
	cmd := NewHistoryCommand(config.New(), ui.NewFormatter(&bytes.Buffer{}))
	assert.ErrorContains(t, cmd.Execute(&cobra.Command{}, nil), "no run history configured")
}

type fakeCleaner struct{ err error }

func (f *fakeCleaner) Clean() error { return f.err }

func TestCleanCommand(t *testing.T) {
	assert.NoError(t, NewCleanCommand(&fakeCleaner{}).Execute(&cobra.Command{}, nil))
	assert.Error(t, NewCleanCommand(&fakeCleaner{err: errors.New("busy")}).Execute(&cobra.Command{}, nil))
}

func TestRegister_LoadsConfigBeforeRun(t *testing.T) {
	cfg := config.New()
	var flags cli.Flags
	root := &cobra.Command{Use: "ldptw", Version: "test"}
	NewCommands(cfg).Register(root, &flags, cfg)

	dir := t.TempDir()
	root.SetArgs([]string{"version", "--instance-dir", filepath.Join(dir, "suite"), "--suite-version", "9.9.9"})
	var out bytes.Buffer
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Equal(t, "9.9.9", cfg.Version)
	assert.Equal(t, filepath.Join(dir, "suite"), cfg.InstanceDir)
	assert.Contains(t, out.String(), "suite version:     9.9.9")
	assert.Contains(t, out.String(), "not installed")
}

// Package ldptest runs the W3C LDP test suite from Go tests.
//
// A server's test package creates one Harness, starts its server and calls
// RunSuite once per container configuration:
//
//	h := ldptest.New(ldptest.NewConfig(), srv.URL)
//	h.RunSuite(t, ldptest.SuiteOptions{Basic: true}, "testPatchMethod")
//
// Suite runs are memoized per option set, so scenarios that share options
// share one suite invocation.
package ldptest

import (
	"context"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"ldptw/internal/config"
	"ldptw/internal/domain"
	"ldptw/internal/execution"
	"ldptw/internal/fetch"
	"ldptw/internal/install"
	"ldptw/internal/ldp"
	"ldptw/internal/report"
)

// Harness runs the suite against one LDP server
type Harness struct {
	server     string
	reportPath string
	executor   execution.Executor
	client     *ldp.Client

	// Held for a whole suite run; the report path is shared by every run
	mu    sync.Mutex
	cache map[string]*domain.Report
}

// Option customizes a Harness
type Option func(*Harness)

// WithExecutor replaces the suite runner
func WithExecutor(e execution.Executor) Option {
	return func(h *Harness) { h.executor = e }
}

// WithHTTPClient sets the client used to create resources on the server
func WithHTTPClient(c *http.Client) Option {
	return func(h *Harness) { h.client = ldp.NewClient(c) }
}

// New creates a Harness for the LDP server at server. The suite is
// downloaded and built on first use as described by cfg.
func New(cfg *config.Config, server string, opts ...Option) *Harness {
	h := &Harness{
		server:     server,
		reportPath: cfg.GetReportPath(),
		client:     ldp.NewClient(nil),
		cache:      make(map[string]*domain.Report),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.executor == nil {
		var status io.Writer = io.Discard
		if cfg.Verbose {
			status = os.Stderr
		}
		fetcher := fetch.NewFetcher(nil, fetch.NopProgress)
		instance := install.NewInstance(cfg, fetcher, install.NewConfigBuilder(cfg, os.Stderr), status)
		h.executor = execution.NewRunner(cfg, instance, os.Stderr)
	}
	return h
}

// CreateResource creates a fresh resource under the server for one scenario
// and returns its URL. The container type is advertised when set.
func (h *Harness) CreateResource(ctx context.Context, containerType domain.ContainerType) (string, error) {
	return h.client.CreateResource(ctx, h.server, containerType)
}

// Run returns the report for opts, running the suite only for option sets
// not seen before. A hard suite error fails t, and so does a missing report
// file on every call, memoized or not.
func (h *Harness) Run(t testing.TB, opts domain.SuiteOptions) *domain.Report {
	t.Helper()

	h.mu.Lock()
	defer h.mu.Unlock()

	key := opts.Key()
	if rep, ok := h.cache[key]; ok {
		if !h.assertReport(t) {
			return nil
		}
		return rep
	}

	if err := report.Remove(h.reportPath); err != nil {
		t.Fatalf("%v", err)
		return nil
	}

	result, err := h.executor.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("run ldp testsuite: %v", err)
		return nil
	}
	// exit 0: OK, exit 1: hard error, exit 2+: the suite's own test failures
	if result.Outcome == domain.OutcomeHardError {
		t.Fatalf("%s", result.Output)
		return nil
	}

	if !h.assertReport(t) {
		return nil
	}
	rep, err := report.Load(h.reportPath)
	if err != nil {
		t.Fatalf("%v", err)
		return nil
	}

	h.cache[key] = rep
	return rep
}

// assertReport checks the suite report is on disk, stopping t when it is not
func (h *Harness) assertReport(t testing.TB) bool {
	t.Helper()
	if !assert.FileExists(t, h.reportPath, "ldp testsuite report") {
		t.FailNow()
		return false
	}
	return true
}

// Invalidate forgets every memoized report
func (h *Harness) Invalidate() {
	h.mu.Lock()
	h.cache = make(map[string]*domain.Report)
	h.mu.Unlock()
}

// AssertPasses records one failed assertion per failing method and reports whether there were none
func (h *Harness) AssertPasses(t testing.TB, verdict *report.Verdict) bool {
	t.Helper()
	ok := true
	for _, f := range verdict.Failures {
		ok = assert.Equal(t, domain.StatusPass, f.Status, f.Message()) && ok
	}
	return ok
}

// ReportPending logs every pending method and skips t when there are any
func (h *Harness) ReportPending(t testing.TB, verdict *report.Verdict) {
	t.Helper()
	if len(verdict.Pending) == 0 {
		return
	}
	for _, m := range verdict.Pending {
		f := report.Failure{TestMethod: m}
		t.Logf("%s", f.Message())
	}
	t.Skipf("%d skipped LDP test(s)", len(verdict.Pending))
}

// RunSuite creates a resource, runs the suite against it and checks the report
// in two subtests: "passes tests" and "skips skipped tests".
func (h *Harness) RunSuite(t *testing.T, opts domain.SuiteOptions, skip ...string) *report.Verdict {
	t.Helper()

	url, err := h.CreateResource(context.Background(), opts.ContainerType())
	if err != nil {
		t.Fatalf("%v", err)
		return nil
	}
	opts.Server = url

	rep := h.Run(t, opts)
	if rep == nil {
		return nil
	}
	verdict := report.Evaluate(rep, domain.NewSkipList(skip...))

	t.Run("passes tests", func(t *testing.T) {
		h.AssertPasses(t, verdict)
	})
	t.Run("skips skipped tests", func(t *testing.T) {
		h.ReportPending(t, verdict)
	})
	return verdict
}

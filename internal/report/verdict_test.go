package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldptw/internal/domain"
)

func passFailReport() *domain.Report {
	return &domain.Report{Methods: []domain.TestMethod{
		{Name: "testGetResource", Status: domain.StatusPass},
		{
			Name:        "testPutRequiresIfMatch",
			Description: "LDP servers SHOULD require If-Match.",
			Status:      domain.StatusFail,
			Exception:   &domain.Exception{Class: "java.lang.AssertionError", Message: "Expected 428"},
		},
	}}
}

func TestEvaluate_PassFail(t *testing.T) {
	v := Evaluate(passFailReport(), nil)

	require.Len(t, v.Failures, 1)
	assert.Equal(t, "testPutRequiresIfMatch", v.Failures[0].Name)
	assert.Len(t, v.Passed, 1)
	assert.Empty(t, v.Pending)
	assert.False(t, v.OK())
	assert.Equal(t, 2, v.Total())
	assert.Equal(t,
		"testPutRequiresIfMatch: LDP servers SHOULD require If-Match.\njava.lang.AssertionError\nExpected 428",
		v.Failures[0].Message())
}

func TestEvaluate_SkipListed(t *testing.T) {
	v := Evaluate(passFailReport(), domain.NewSkipList("testPutRequiresIfMatch"))

	assert.True(t, v.OK())
	require.Len(t, v.Pending, 1)
	assert.Equal(t, "testPutRequiresIfMatch", v.Pending[0].Name)
}

func TestEvaluate_SkipStatusIsPending(t *testing.T) {
	r := &domain.Report{Methods: []domain.TestMethod{
		{Name: "testPatch", Status: domain.StatusSkip},
	}}

	v := Evaluate(r, domain.NewSkipList())

	assert.True(t, v.OK(), "SKIP must not fail even when absent from the skip list")
	assert.Len(t, v.Pending, 1)
}

func TestFailure_MessageWithoutException(t *testing.T) {
	f := Failure{TestMethod: domain.TestMethod{Name: "testX", Description: "desc", Status: domain.StatusFail}}
	assert.Equal(t, "testX: desc\n\n", f.Message())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "testng-results.xml"))
	assert.True(t, errors.Is(err, ErrReportMissing))

	path := filepath.Join(dir, "testng-results.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<testng-results><test-method status="PASS" name="a"/></testng-results>`), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, r.Methods, 1)

	require.NoError(t, Remove(path))
	assert.NoFileExists(t, path)
	assert.NoError(t, Remove(path), "removing a missing report is a no-op")
}

package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ldptw/internal/domain"
)

const sampleReport = `<?xml version="1.0" encoding="UTF-8"?>
<testng-results skipped="1" failed="1" total="3" passed="1">
  <suite name="LDP Test Suite" duration-ms="1234">
    <test name="LDP-RS">
      <class name="org.w3.ldp.testsuite.test.BasicContainerTest">
        <test-method status="PASS" signature="testGetResource()" name="testGetResource" duration-ms="12" description="Tests GET on a resource.">
        </test-method>
        <test-method status="FAIL" signature="testPutRequiresIfMatch()" name="testPutRequiresIfMatch" duration-ms="40">
          <description><![CDATA[  LDP servers SHOULD require If-Match.  ]]></description>
          <exception class="java.lang.AssertionError">
            <message>
              <![CDATA[Expected status code 428 but was 204.]]>
            </message>
          </exception>
        </test-method>
      </class>
      <class name="org.w3.ldp.testsuite.test.MemberSubmissionTest">
        <test-method status="SKIP" signature="testPatch()" name="testPatch" duration-ms="0">
          <exception class="org.testng.SkipException">
            <message><![CDATA[Skipping test since PATCH is not supported]]></message>
          </exception>
        </test-method>
      </class>
    </test>
  </suite>
</testng-results>
`

func TestTestNGParser_Parse(t *testing.T) {
	report, err := NewTestNGParser().Parse(strings.NewReader(sampleReport))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Methods) != 3 {
		t.Fatalf("expected 3 methods, got %d", len(report.Methods))
	}

	t.Run("passing method", func(t *testing.T) {
		m := report.Methods[0]
		if m.Name != "testGetResource" || m.Status != domain.StatusPass {
			t.Errorf("unexpected method: %+v", m)
		}
		if m.Class != "org.w3.ldp.testsuite.test.BasicContainerTest" {
			t.Errorf("expected enclosing class, got %q", m.Class)
		}
		if m.Description != "Tests GET on a resource." {
			t.Errorf("expected description attribute, got %q", m.Description)
		}
		if m.DurationMS != 12 || m.Signature != "testGetResource()" {
			t.Errorf("unexpected duration/signature: %d %q", m.DurationMS, m.Signature)
		}
		if m.Exception != nil {
			t.Errorf("expected no exception, got %+v", m.Exception)
		}
	})

	t.Run("failing method", func(t *testing.T) {
		m := report.Methods[1]
		if m.Status != domain.StatusFail {
			t.Errorf("expected FAIL, got %s", m.Status)
		}
		if m.Description != "LDP servers SHOULD require If-Match." {
			t.Errorf("expected description child, got %q", m.Description)
		}
		if m.Exception == nil {
			t.Fatal("expected exception")
		}
		if m.Exception.Class != "java.lang.AssertionError" {
			t.Errorf("unexpected exception class %q", m.Exception.Class)
		}
		if m.Exception.Message != "Expected status code 428 but was 204." {
			t.Errorf("unexpected exception message %q", m.Exception.Message)
		}
	})

	t.Run("skipped method", func(t *testing.T) {
		m := report.Methods[2]
		if m.Status != domain.StatusSkip {
			t.Errorf("expected SKIP, got %s", m.Status)
		}
		if m.Class != "org.w3.ldp.testsuite.test.MemberSubmissionTest" {
			t.Errorf("class must follow the closest enclosing element, got %q", m.Class)
		}
	})

	counts := report.Counts()
	if counts[domain.StatusPass] != 1 || counts[domain.StatusFail] != 1 || counts[domain.StatusSkip] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestTestNGParser_Parse_EdgeCases(t *testing.T) {
	parser := NewTestNGParser()

	t.Run("methods outside any class", func(t *testing.T) {
		report, err := parser.Parse(strings.NewReader(`<r><test-method status="pass" name="a"/></r>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Methods) != 1 {
			t.Fatalf("expected 1 method, got %d", len(report.Methods))
		}
		if report.Methods[0].Class != "" {
			t.Errorf("expected empty class, got %q", report.Methods[0].Class)
		}
		if report.Methods[0].Status != domain.StatusPass {
			t.Errorf("status must be normalised, got %q", report.Methods[0].Status)
		}
	})

	t.Run("empty report", func(t *testing.T) {
		report, err := parser.Parse(strings.NewReader(`<testng-results/>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Methods) != 0 {
			t.Errorf("expected no methods, got %d", len(report.Methods))
		}
	})

	t.Run("malformed xml", func(t *testing.T) {
		_, err := parser.Parse(strings.NewReader(`<testng-results><class name="x">`))
		if err == nil {
			t.Error("expected error for truncated report")
		}
	})

	t.Run("non-numeric duration", func(t *testing.T) {
		report, err := parser.Parse(strings.NewReader(`<r><test-method status="FAIL" name="a" duration-ms="n/a"/></r>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Methods[0].DurationMS != 0 {
			t.Errorf("expected zero duration, got %d", report.Methods[0].DurationMS)
		}
	})
}

func TestTestNGParser_ParseFile(t *testing.T) {
	parser := NewTestNGParser()
	path := filepath.Join(t.TempDir(), "testng-results.xml")
	if err := os.WriteFile(path, []byte(sampleReport), 0644); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}

	report, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Path != path {
		t.Errorf("expected path %q, got %q", path, report.Path)
	}

	_, err = parser.ParseFile(filepath.Join(t.TempDir(), "missing.xml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

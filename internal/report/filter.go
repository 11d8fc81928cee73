package report

import (
	"path/filepath"
	"strings"

	"ldptw/internal/domain"
)

// Filter narrows test methods by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps methods whose name or Class.name matches pattern.
// Supports patterns like "testPut*" or "*Container*"; a pattern without
// wildcards is a substring match.
func (f *Filter) FilterByName(methods []domain.TestMethod, pattern string) []domain.TestMethod {
	if pattern == "" {
		return methods
	}

	var filtered []domain.TestMethod
	for _, m := range methods {
		if matches(m.Name, pattern) || (m.Class != "" && matches(shortClass(m.Class)+"."+m.Name, pattern)) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// Apply narrows the report in place and returns it
func (f *Filter) Apply(r *domain.Report, pattern string) *domain.Report {
	r.Methods = f.FilterByName(r.Methods, pattern)
	return r
}

func matches(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match is anchored; "*Put*" style patterns fall back to ordered parts
	if strings.Contains(pattern, "?") {
		return false
	}
	rest := name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
		found = true
	}
	return found
}

func shortClass(class string) string {
	if i := strings.LastIndex(class, "."); i >= 0 {
		return class[i+1:]
	}
	return class
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuiteOptions_Args(t *testing.T) {
	tests := []struct {
		name     string
		options  SuiteOptions
		expected []string
	}{
		{
			name:     "empty options",
			options:  SuiteOptions{},
			expected: nil,
		},
		{
			name:     "true boolean becomes a single flag",
			options:  SuiteOptions{Basic: true},
			expected: []string{"-basic"},
		},
		{
			name:     "false boolean is omitted",
			options:  SuiteOptions{Basic: false, Server: "http://localhost:8080/c"},
			expected: []string{"-server", "http://localhost:8080/c"},
		},
		{
			name: "declaration order is kept",
			options: SuiteOptions{
				Test:           "testPostResource",
				NonRDF:         true,
				Server:         "http://localhost:8080/c",
				Direct:         true,
				ExcludedGroups: "MAY",
			},
			expected: []string{
				"-server", "http://localhost:8080/c",
				"-direct",
				"-non-rdf",
				"-excludedGroups", "MAY",
				"-test", "testPostResource",
			},
		},
		{
			name:     "output switch never reaches the suite",
			options:  SuiteOptions{Output: true, Relax: true},
			expected: []string{"-relax"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.options.Args())
		})
	}
}

func TestSuiteOptions_Merge(t *testing.T) {
	base := SuiteOptions{Server: "http://a", Basic: true, Software: "srv"}
	merged := base.Merge(SuiteOptions{Server: "http://b", NonRDF: true})

	assert.Equal(t, "http://b", merged.Server)
	assert.True(t, merged.Basic)
	assert.True(t, merged.NonRDF)
	assert.Equal(t, "srv", merged.Software)
	assert.Equal(t, "http://a", base.Server, "base must not be modified")
	assert.True(t, base.Merge(SuiteOptions{Basic: false}).Basic, "a false override leaves a set flag alone")
}

func TestSuiteOptions_Key(t *testing.T) {
	a := SuiteOptions{Server: "http://localhost/1", Basic: true}
	b := SuiteOptions{Server: "http://localhost/2", Basic: true, Output: true}
	c := SuiteOptions{Server: "http://localhost/1", Direct: true}

	assert.Equal(t, a.Key(), b.Key(), "server and output must not affect the key")
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestSuiteOptions_ContainerType(t *testing.T) {
	assert.Equal(t, BasicContainer, SuiteOptions{Basic: true}.ContainerType())
	assert.Equal(t, DirectContainer, SuiteOptions{Direct: true}.ContainerType())
	assert.Equal(t, IndirectContainer, SuiteOptions{Indirect: true}.ContainerType())
	assert.Equal(t, ContainerType(""), SuiteOptions{}.ContainerType())
}

func TestClassifyExit(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, ClassifyExit(0))
	assert.Equal(t, OutcomeHardError, ClassifyExit(1))
	assert.Equal(t, OutcomeHardError, ClassifyExit(-1))
	assert.Equal(t, OutcomeSuiteFailures, ClassifyExit(2))
	assert.Equal(t, OutcomeSuiteFailures, ClassifyExit(7))
}

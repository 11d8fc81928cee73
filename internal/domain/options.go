package domain

import "strings"

// ContainerType is the LDP interaction model advertised in the Link header
// when the container under test is created.
type ContainerType string

const (
	BasicContainer    ContainerType = "http://www.w3.org/ns/ldp#BasicContainer"
	DirectContainer   ContainerType = "http://www.w3.org/ns/ldp#DirectContainer"
	IndirectContainer ContainerType = "http://www.w3.org/ns/ldp#IndirectContainer"
)

// SuiteOptions are the command line options understood by the LDP test suite jar.
// Zero values are treated as absent and never reach the command line.
type SuiteOptions struct {
	Server         string `yaml:"server,omitempty"`
	Basic          bool   `yaml:"basic,omitempty"`
	Direct         bool   `yaml:"direct,omitempty"`
	Indirect       bool   `yaml:"indirect,omitempty"`
	NonRDF         bool   `yaml:"non_rdf,omitempty"`
	IncludedGroups string `yaml:"included_groups,omitempty"`
	ExcludedGroups string `yaml:"excluded_groups,omitempty"`
	ContRes        string `yaml:"cont_res,omitempty"`
	ReadOnlyProp   string `yaml:"read_only_prop,omitempty"`
	Relax          bool   `yaml:"relax,omitempty"`
	HTTPLogging    bool   `yaml:"http_logging,omitempty"`
	SkipLogging    bool   `yaml:"skip_logging,omitempty"`
	EARL           bool   `yaml:"earl,omitempty"`
	Software       string `yaml:"software,omitempty"`
	Developer      string `yaml:"developer,omitempty"`
	Language       string `yaml:"language,omitempty"`
	Homepage       string `yaml:"homepage,omitempty"`
	Assertor       string `yaml:"assertor,omitempty"`
	ShortName      string `yaml:"shortname,omitempty"`
	Test           string `yaml:"test,omitempty"`

	// Output mirrors the suite's own output live when the instance is verbose.
	// It is never passed to the suite.
	Output bool `yaml:"output,omitempty"`
}

// FlagKind tells how a suite flag is rendered on the command line.
type FlagKind int

const (
	BoolFlag FlagKind = iota
	StringFlag
)

// Flag is one recognised suite flag with its current value.
type Flag struct {
	Name string
	Kind FlagKind
	Bool bool
	Str  string
}

// Present reports whether the flag contributes tokens to the command line.
func (f Flag) Present() bool {
	switch f.Kind {
	case BoolFlag:
		return f.Bool
	default:
		return f.Str != ""
	}
}

// Tokens renders the flag: "-name" for a set boolean, "-name value" otherwise.
func (f Flag) Tokens() []string {
	if !f.Present() {
		return nil
	}
	switch f.Kind {
	case BoolFlag:
		return []string{"-" + f.Name}
	default:
		return []string{"-" + f.Name, f.Str}
	}
}

// Flags lists every recognised flag in command line order.
func (o SuiteOptions) Flags() []Flag {
	return []Flag{
		{Name: "server", Kind: StringFlag, Str: o.Server},
		{Name: "basic", Kind: BoolFlag, Bool: o.Basic},
		{Name: "direct", Kind: BoolFlag, Bool: o.Direct},
		{Name: "indirect", Kind: BoolFlag, Bool: o.Indirect},
		{Name: "non-rdf", Kind: BoolFlag, Bool: o.NonRDF},
		{Name: "includedGroups", Kind: StringFlag, Str: o.IncludedGroups},
		{Name: "excludedGroups", Kind: StringFlag, Str: o.ExcludedGroups},
		{Name: "cont-res", Kind: StringFlag, Str: o.ContRes},
		{Name: "read-only-prop", Kind: StringFlag, Str: o.ReadOnlyProp},
		{Name: "relax", Kind: BoolFlag, Bool: o.Relax},
		{Name: "httpLogging", Kind: BoolFlag, Bool: o.HTTPLogging},
		{Name: "skipLogging", Kind: BoolFlag, Bool: o.SkipLogging},
		{Name: "earl", Kind: BoolFlag, Bool: o.EARL},
		{Name: "software", Kind: StringFlag, Str: o.Software},
		{Name: "developer", Kind: StringFlag, Str: o.Developer},
		{Name: "language", Kind: StringFlag, Str: o.Language},
		{Name: "homepage", Kind: StringFlag, Str: o.Homepage},
		{Name: "assertor", Kind: StringFlag, Str: o.Assertor},
		{Name: "shortname", Kind: StringFlag, Str: o.ShortName},
		{Name: "test", Kind: StringFlag, Str: o.Test},
	}
}

// Args flattens the options into suite arguments.
func (o SuiteOptions) Args() []string {
	var args []string
	for _, f := range o.Flags() {
		args = append(args, f.Tokens()...)
	}
	return args
}

// Merge returns o overlaid with every non-zero field of override.
// A false boolean in override cannot clear a flag that o sets.
func (o SuiteOptions) Merge(override SuiteOptions) SuiteOptions {
	merged := o
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setBool := func(dst *bool, v bool) {
		if v {
			*dst = true
		}
	}

	setStr(&merged.Server, override.Server)
	setBool(&merged.Basic, override.Basic)
	setBool(&merged.Direct, override.Direct)
	setBool(&merged.Indirect, override.Indirect)
	setBool(&merged.NonRDF, override.NonRDF)
	setStr(&merged.IncludedGroups, override.IncludedGroups)
	setStr(&merged.ExcludedGroups, override.ExcludedGroups)
	setStr(&merged.ContRes, override.ContRes)
	setStr(&merged.ReadOnlyProp, override.ReadOnlyProp)
	setBool(&merged.Relax, override.Relax)
	setBool(&merged.HTTPLogging, override.HTTPLogging)
	setBool(&merged.SkipLogging, override.SkipLogging)
	setBool(&merged.EARL, override.EARL)
	setStr(&merged.Software, override.Software)
	setStr(&merged.Developer, override.Developer)
	setStr(&merged.Language, override.Language)
	setStr(&merged.Homepage, override.Homepage)
	setStr(&merged.Assertor, override.Assertor)
	setStr(&merged.ShortName, override.ShortName)
	setStr(&merged.Test, override.Test)
	setBool(&merged.Output, override.Output)

	return merged
}

// Key identifies the option set for caching suite runs. The target server is
// excluded because every scenario creates its own container.
func (o SuiteOptions) Key() string {
	o.Server = ""
	o.Output = false
	return strings.Join(o.Args(), "\x1f")
}

// ContainerType returns the interaction model selected by the options, or ""
// when none is selected.
func (o SuiteOptions) ContainerType() ContainerType {
	switch {
	case o.Basic:
		return BasicContainer
	case o.Direct:
		return DirectContainer
	case o.Indirect:
		return IndirectContainer
	}
	return ""
}

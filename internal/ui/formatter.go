package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ldptw/internal/domain"
)

// Formatter formats and displays run summaries
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out (stdout when nil)
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = os.Stdout
	}
	return &Formatter{out: out}
}

// PrintSummary prints the run statistics table followed by the failure tree
func (f *Formatter) PrintSummary(record *domain.RunRecord) {
	meta := record.Meta

	fmt.Fprintln(f.out)
	color.New(color.FgCyan).Fprintln(f.out, "LDP Test Suite Results")

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"METRIC", "VALUE"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "VALUE", Align: text.AlignRight},
	})
	t.AppendRows([]table.Row{
		{"Suite version", meta.Version},
		{"Server", meta.Server},
		{"Outcome", meta.Outcome},
		{"Exit code", meta.ExitCode},
		{"Test methods", meta.TotalMethods},
		{"Passed", meta.PassedMethods},
		{"Failed", meta.FailedMethods},
		{"Pending", meta.PendingMethods},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Timestamp", meta.Timestamp},
	})

	switch {
	case meta.FailedMethods > 0 || meta.Outcome == domain.OutcomeHardError.String():
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case meta.PendingMethods > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	case meta.TotalMethods > 0:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		t.SetStyle(table.StyleDefault)
	}
	if color.NoColor {
		t.SetStyle(table.StyleLight)
	}
	t.Render()

	fmt.Fprintln(f.out)
	if meta.FailedMethods == 0 {
		color.New(color.FgGreen).Fprintf(f.out, "✓ All %d test method(s) passed", meta.PassedMethods)
		if meta.PendingMethods > 0 {
			color.New(color.FgYellow).Fprintf(f.out, " (%d pending)", meta.PendingMethods)
		}
		fmt.Fprintln(f.out)
	} else {
		color.New(color.FgRed).Fprintf(f.out, "✗ %d test method(s) failed\n", meta.FailedMethods)
		fmt.Fprintln(f.out)
		f.PrintFailureTree(record.Failures)
	}

	if len(record.Pending) > 0 {
		fmt.Fprintln(f.out)
		color.New(color.FgYellow).Fprintln(f.out, "Pending:")
		for _, p := range record.Pending {
			fmt.Fprintf(f.out, "  - %s\n", p.Name)
		}
	}
}

// PrintFailureTree prints failures grouped by test class
func (f *Formatter) PrintFailureTree(failures []domain.MethodFailure) {
	if len(failures) == 0 {
		return
	}

	byClass := make(map[string][]domain.MethodFailure)
	for _, failure := range failures {
		class := failure.Class
		if class == "" {
			class = "(no class)"
		}
		byClass[class] = append(byClass[class], failure)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for i, class := range classes {
		lastClass := i == len(classes)-1
		branch, indent := "├── ", "│   "
		if lastClass {
			branch, indent = "└── ", "    "
		}
		color.New(color.FgCyan).Fprintf(f.out, "%s%s\n", branch, class)

		methods := byClass[class]
		for j, m := range methods {
			leaf := "├── "
			if j == len(methods)-1 {
				leaf = "└── "
			}
			marker := ""
			if m.Resolved {
				marker = " " + color.HiBlackString("(resolved)")
			}
			color.New(color.FgRed).Fprintf(f.out, "%s%s%s", indent, leaf, m.Name)
			fmt.Fprintln(f.out, marker)
		}
	}
}

// PrintFailureMessages prints every failure as "name: description", exception class and message
func (f *Formatter) PrintFailureMessages(failures []domain.MethodFailure) {
	for _, m := range failures {
		var class, msg string
		if m.Exception != nil {
			class = m.Exception.Class
			msg = m.Exception.Message
		}
		color.New(color.FgRed).Fprintf(f.out, "%s: %s\n", m.Name, m.Description)
		if class != "" {
			color.New(color.FgYellow).Fprintln(f.out, class)
		}
		if msg != "" {
			fmt.Fprintln(f.out, strings.TrimSpace(msg))
		}
		fmt.Fprintln(f.out)
	}
}

// PrintMethodList prints report methods grouped by class, marking failures with [F] and pending methods with [S]
func (f *Formatter) PrintMethodList(methods []domain.TestMethod, skip domain.SkipList) {
	color.New(color.FgGreen).Fprintf(f.out, "Found %d test method(s):\n\n", len(methods))

	var classes []string
	byClass := make(map[string][]domain.TestMethod)
	for _, m := range methods {
		if _, ok := byClass[m.Class]; !ok {
			classes = append(classes, m.Class)
		}
		byClass[m.Class] = append(byClass[m.Class], m)
	}

	for i, class := range classes {
		lastClass := i == len(classes)-1
		branch, indent := "├── ", "│   "
		if lastClass {
			branch, indent = "└── ", "    "
		}
		name := class
		if name == "" {
			name = "(no class)"
		}
		color.New(color.FgCyan).Fprintf(f.out, "%s%s\n", branch, name)

		for j, m := range byClass[class] {
			leaf := "├── "
			if j == len(byClass[class])-1 {
				leaf = "└── "
			}
			marker := ""
			switch {
			case m.Status == domain.StatusSkip || skip.Contains(m.Name):
				marker = " " + color.YellowString("[S]")
			case m.Status != domain.StatusPass:
				marker = " " + color.RedString("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s%s\n", indent, leaf, color.YellowString(m.Name), marker)
		}
	}
}

// PrintHistory prints stored runs, newest first
func (f *Formatter) PrintHistory(runs []domain.RunMeta) {
	if len(runs) == 0 {
		color.New(color.FgYellow).Fprintln(f.out, "No runs recorded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"TIMESTAMP", "VERSION", "SERVER", "OUTCOME", "TESTS", "PASSED", "FAILED", "PENDING", "DURATION"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "SERVER", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "TESTS", Align: text.AlignRight},
		{Name: "PASSED", Align: text.AlignRight},
		{Name: "FAILED", Align: text.AlignRight},
		{Name: "PENDING", Align: text.AlignRight},
		{Name: "DURATION", Align: text.AlignRight},
	})

	var total, passed, failed, pending int
	for _, r := range runs {
		t.AppendRow(table.Row{r.Timestamp, r.Version, r.Server, r.Outcome, r.TotalMethods,
			r.PassedMethods, r.FailedMethods, r.PendingMethods, fmt.Sprintf("%.2fs", r.DurationSeconds)})
		total += r.TotalMethods
		passed += r.PassedMethods
		failed += r.FailedMethods
		pending += r.PendingMethods
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d run(s)", len(runs)), "", "", "", total, passed, failed, pending, ""})
	t.SetStyle(table.StyleLight)
	t.Render()
}

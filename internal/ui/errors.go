package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"ldptw/internal/domain"
	"ldptw/internal/storage"
)

// ErrorViewer displays test method failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

var _ Viewer = (*ErrorViewer)(nil)

// NewErrorViewer creates a new ErrorViewer that persists resolved marks through st
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays the failures of a stored run
func (ev *ErrorViewer) View(record *domain.RunRecord) error {
	if len(record.Failures) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	updateListItem := func(index int) {
		if index < 0 || index >= list.GetItemCount() {
			return
		}
		list.SetItemText(index, listItemText(record, index), "")
	}

	for i := range record.Failures {
		list.AddItem(listItemText(record, i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// list on the left (1/3), details on the right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" LDP Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
			len(record.Failures), countUnresolved(record)))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(record.Failures) {
			failure := record.Failures[index]
			statsView.SetText(formatFailureStats(failure, record.Meta))
			detailsView.SetText(formatFailureDetails(failure))
		}
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp, tcell.KeyDown:
			return event
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if toggleResolved(record, index) {
					updateListItem(index)
					updateHeader()
					updateDetails()
					if ev.storage != nil {
						saveErr = ev.storage.Save(record)
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("save resolved status: %w", saveErr)
	}
	return nil
}

// toggleResolved flips the resolved mark of the failure at index
func toggleResolved(record *domain.RunRecord, index int) bool {
	if index < 0 || index >= len(record.Failures) {
		return false
	}
	record.Failures[index].Resolved = !record.Failures[index].Resolved
	return true
}

func countUnresolved(record *domain.RunRecord) int {
	count := 0
	for _, f := range record.Failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

func listItemText(record *domain.RunRecord, index int) string {
	failure := record.Failures[index]
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(name))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// formatFailureDetails formats a failure using tview color tags
func formatFailureDetails(failure domain.MethodFailure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n\n", tview.Escape(failure.Name))
	if failure.Class != "" {
		fmt.Fprintf(&b, "[cyan]Class: %s[white]\n", tview.Escape(failure.Class))
	}
	if failure.Signature != "" {
		fmt.Fprintf(&b, "[cyan]Signature: %s[white]\n", tview.Escape(failure.Signature))
	}
	fmt.Fprintf(&b, "[cyan]Status: %s[white]\n\n", failure.Status)

	if failure.Description != "" {
		fmt.Fprintf(&b, "[yellow]Description:[white]\n%s\n\n", tview.Escape(failure.Description))
	}
	if failure.Exception != nil {
		fmt.Fprintf(&b, "[yellow]Exception:[white] %s\n", tview.Escape(failure.Exception.Class))
		if failure.Exception.Message != "" {
			fmt.Fprintf(&b, "\n%s\n", tview.Escape(failure.Exception.Message))
		}
	}
	return b.String()
}

// formatFailureStats formats the header line above the failure details
func formatFailureStats(failure domain.MethodFailure, meta domain.RunMeta) string {
	server := meta.Server
	if server == "" {
		server = "unknown server"
	}
	return fmt.Sprintf("[cyan]server:[white] [yellow]%s[white]\n[cyan]method:[white] [yellow]%s[white] (%dms)\n",
		tview.Escape(server), tview.Escape(failure.Name), failure.DurationMS)
}

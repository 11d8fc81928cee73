package ui

import "ldptw/internal/domain"

// Viewer displays a stored run in an interactive TUI
type Viewer interface {
	View(record *domain.RunRecord) error
}

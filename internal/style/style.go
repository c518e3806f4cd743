// Package style defines the terminal styles used across grove's output.
package style

import "github.com/charmbracelet/lipgloss"

var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var (
	// SuccessPrefix is the standard "✓" marker for completed operations.
	SuccessPrefix = Success.Render("✓")

	// WarningPrefix is the standard "Warning:" marker for non-fatal problems.
	WarningPrefix = Warning.Render("Warning:")
)

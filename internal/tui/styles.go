// Package tui renders the debug panel in the terminal. Each registered view
// is a tab; the Tags view lists tags in a table and answers dialogs inline.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary     = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	colorMuted       = lipgloss.AdaptiveColor{Light: "#6a737d", Dark: "#8b949e"}
	colorBorder      = lipgloss.AdaptiveColor{Light: "#dce0e5", Dark: "#2a3850"}
	colorSuccess     = lipgloss.Color("#8BC34A")
	colorDestructive = lipgloss.Color("#e53935")
	colorWarning     = lipgloss.Color("#FFC107")
)

// Styles groups the lipgloss styles used by the panel.
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Header    lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Dialog    lipgloss.Style
	Selected  lipgloss.Style
	Filter    lipgloss.Style
}

// DefaultStyles returns the panel's default styles.
func DefaultStyles() Styles {
	return Styles{
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorPrimary).Underline(true),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Success:   lipgloss.NewStyle().Foreground(colorSuccess),
		Error:     lipgloss.NewStyle().Foreground(colorDestructive).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(colorWarning),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Filter: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
	}
}

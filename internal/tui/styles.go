package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorOK      = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#22C55E"}
	colorBusy    = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#F59E0B"}
	colorError   = lipgloss.AdaptiveColor{Light: "#EF4444", Dark: "#EF4444"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#3C3C3C"}
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#7D56F4"})

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(14)

	lockedStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	unlockedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	busyStyle     = lipgloss.NewStyle().Foreground(colorBusy)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorWarning).
			Foreground(colorWarning).
			Bold(true).
			Padding(0, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

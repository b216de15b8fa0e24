package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mattismoel/canvascal/util"
)

var (
	// Colors
	primary   = lipgloss.Color("#7C3AED")
	secondary = lipgloss.Color("#A78BFA")
	success   = lipgloss.Color(util.ColorSubmitted)
	danger    = lipgloss.Color(util.ColorOverdue)
	muted     = lipgloss.Color(util.ColorUpcoming)
	text      = lipgloss.Color("#F9FAFB")
	textDim   = lipgloss.Color("#9CA3AF")

	cellWidth = 6

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(primary).
			Padding(0, 2)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(muted).
			Width(cellWidth).
			Align(lipgloss.Center)

	dayStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center)

	selectedDayStyle = dayStyle.
				Background(primary).
				Foreground(text)

	todayStyle = dayStyle.
			Bold(true).
			Foreground(secondary)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(textDim)

	boldStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text)

	dimStyle = lipgloss.NewStyle().
			Foreground(muted).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger)

	okStyle = lipgloss.NewStyle().
		Foreground(success)

	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondary)

	helpStyle = lipgloss.NewStyle().
			Foreground(muted)
)

// badge renders a status pill in the status colour.
func badge(status string) string {
	return lipgloss.NewStyle().
		Foreground(text).
		Background(lipgloss.Color(util.ColorFromStatus(status))).
		Padding(0, 1).
		Render(status)
}

// courseColor falls back to the muted colour when the backend sent none.
func courseColor(hex string) lipgloss.Color {
	if hex == "" {
		return muted
	}
	return lipgloss.Color(hex)
}

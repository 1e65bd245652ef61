package main

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the widget.
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan

	// Number box; the emphasized variant is shown briefly after each refresh.
	numberStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))
	numberEmphasisStyle = numberStyle.
				Foreground(lipgloss.Color("3")).
				BorderForeground(lipgloss.Color("3"))

	// Status colours: green while running, red otherwise.
	runningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	inactiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	controlStyle  = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
)

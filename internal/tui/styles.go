// Package tui provides a bubbletea + lipgloss dashboard for browsing the
// tracked tournaments, sessions and bankroll.
package tui

import "github.com/charmbracelet/lipgloss"

// defaultAccentColor is the default accent color (sea green).
const defaultAccentColor = "#2E8B57"

var (
	colorGray  = lipgloss.Color("#888888")
	colorGreen = lipgloss.Color("#6BCB77")
	colorRed   = lipgloss.Color("#FF6B6B")
)

var (
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	profitStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	lossStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)
)

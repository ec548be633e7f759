package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
)

// Theme holds accent-color-derived styles for the dashboard.
type Theme struct {
	accent          lipgloss.Color
	accentStyle     lipgloss.Style // header background
	titleStyle      lipgloss.Style // panel titles
	borderFocused   lipgloss.Style
	borderUnfocused lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#2E8B57").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: c,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		titleStyle: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// Accent returns the accent color.
func (t Theme) Accent() lipgloss.Color {
	return t.accent
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// PanelBorderStyle returns the appropriate border style for a panel based on
// whether it currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// RenderTitle renders a panel title in the accent color.
func (t Theme) RenderTitle(title string) string {
	return t.titleStyle.Render(title)
}

// RenderBalance renders one line per currency, colored by sign.
func (t Theme) RenderBalance(totals []stats.CurrencyTotal) string {
	if len(totals) == 0 {
		return mutedStyle.Render("No bankroll entries")
	}
	lines := make([]string, len(totals))
	for i, ct := range totals {
		amount := stats.FormatMoney(ct.Total, ct.Currency)
		switch ct.Total.Sign() {
		case 1:
			amount = profitStyle.Render(amount)
		case -1:
			amount = lossStyle.Render(amount)
		}
		lines[i] = fmt.Sprintf("%-4s %s", ct.Currency, amount)
	}
	return strings.Join(lines, "\n")
}

package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

var footerErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Focus        string // "upcoming" or "tables"
	ActiveTab    string
	ScrollOffset int
	Err          string // last load error; replaces the left side when set
}

// RenderFooter renders the context-sensitive footer bar.
// Left side: active tab or last error. Right side: keybinding hints.
func RenderFooter(props FooterProps, width int) string {
	left := ""
	if props.ActiveTab != "" {
		left = "view: " + props.ActiveTab
	}
	if props.ScrollOffset > 0 {
		left += fmt.Sprintf("  ↑%d", props.ScrollOffset)
	}

	right := panelHints(props.Focus) + "  r:reload  q:quit  1-2:panel"

	if props.Err != "" {
		left = footerErrorStyle.Render("error: " + props.Err)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).MaxHeight(1).Render(left + strings.Repeat(" ", gap) + right)
}

// panelHints returns the context-sensitive keybinding hints for a given focus.
func panelHints(focus string) string {
	switch focus {
	case "upcoming":
		return "j/k:navigate  enter:details  tab:next panel"
	case "tables":
		return "[/]:tab  j/k:scroll  ctrl+u/d:page  tab:next panel"
	default:
		return "tab:next panel"
	}
}

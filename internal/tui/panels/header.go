// Package panels provides the panel components for the dashboard.
package panels

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
// String fields for state avoid importing the parent tui package.
type HeaderProps struct {
	Title       string
	Backend     string
	DBPath      string
	Tournaments int
	Sessions    int
	Bankrolls   int
	StateSymbol string // e.g. "●", "✓", "✗"
	StateLabel  string // e.g. "LOADING", "READY", "FAILED"
	LoadedAt    time.Time
}

// AbbreviatePath returns a display-friendly path, replacing the home directory
// with "~" and converting backslashes to forward slashes.
func AbbreviatePath(path string) string {
	if path == "" {
		return ""
	}
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}
	return strings.ReplaceAll(path, "\\", "/")
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "PokerTrack"
	if props.Title != "" {
		name = props.Title
	}

	parts := []string{"♠ " + name}
	if props.DBPath != "" {
		db := AbbreviatePath(props.DBPath)
		if props.Backend != "" {
			db = props.Backend + ":" + db
		}
		parts = append(parts, "db: "+db)
	}

	parts = append(parts,
		fmt.Sprintf("tournaments: %d", props.Tournaments),
		fmt.Sprintf("sessions: %d", props.Sessions),
		fmt.Sprintf("bankroll: %d", props.Bankrolls),
	)

	stateLabel := props.StateLabel
	if props.StateSymbol != "" && props.StateLabel != "" {
		stateLabel = props.StateSymbol + " " + props.StateLabel
	}
	if stateLabel != "" {
		parts = append(parts, stateLabel)
	}
	if !props.LoadedAt.IsZero() {
		parts = append(parts, "loaded "+props.LoadedAt.Format("15:04:05"))
	}

	content := strings.Join(parts, "  │  ")
	return accentStyle.Width(width).MaxHeight(1).Render(content)
}

package tui

// Rect represents a rectangular region of the terminal.
type Rect struct {
	X, Y, Width, Height int
}

// Layout holds the computed panel geometry for a given terminal size.
type Layout struct {
	Header, Footer    Rect
	Upcoming, Balance Rect
	Tables            Rect
	TooSmall          bool // true when terminal is below the minimum 80×24
}

// Calculate computes the panel layout for a terminal of the given dimensions.
// Returns a Layout with TooSmall=true if width < 80 or height < 24.
//
// Algorithm:
//   - Header: full width, 1 row at top
//   - Footer: full width, 1 row at bottom
//   - Sidebar: 30% of width, clamped to [28, 44]
//   - Upcoming: sidebar width × 70% of body height (top of sidebar)
//   - Balance: sidebar width × remaining body height (bottom of sidebar)
//   - Tables: remaining width × full body height
func Calculate(width, height int) Layout {
	if width < 80 || height < 24 {
		return Layout{TooSmall: true}
	}

	bodyH := height - 2 // subtract header + footer rows

	sidebarW := width * 30 / 100
	if sidebarW < 28 {
		sidebarW = 28
	}
	if sidebarW > 44 {
		sidebarW = 44
	}
	rightW := width - sidebarW

	upcomingH := bodyH * 70 / 100
	balanceH := bodyH - upcomingH

	return Layout{
		Header:   Rect{X: 0, Y: 0, Width: width, Height: 1},
		Footer:   Rect{X: 0, Y: height - 1, Width: width, Height: 1},
		Upcoming: Rect{X: 0, Y: 1, Width: sidebarW, Height: upcomingH},
		Balance:  Rect{X: 0, Y: 1 + upcomingH, Width: sidebarW, Height: balanceH},
		Tables:   Rect{X: sidebarW, Y: 1, Width: rightW, Height: bodyH},
		TooSmall: false,
	}
}

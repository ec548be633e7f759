package panels

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/report"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/tui/components"
)

// TablesTab identifies the active content tab in the tables panel.
type TablesTab int

const (
	TabTournaments TablesTab = iota
	TabSessions
	TabBankroll
	TabStats
	TabCalendar
	TabDetail // tournament picked from the upcoming list
)

const tablesTabCount = 6

var tablesTabLabels = []string{"Tournaments", "Sessions", "Bankroll", "Stats", "Calendar", "Detail"}

// detailPlaceholder is shown on the Detail tab until a tournament is picked.
const detailPlaceholder = "Select a tournament in Upcoming and press enter."

// TablesPanel is the main panel: one scrollable view per tab.
type TablesPanel struct {
	tabbar components.TabBar
	views  [tablesTabCount]components.ScrollView
	width  int
	height int
}

// NewTablesPanel creates a tables panel with empty views.
func NewTablesPanel(w, h int, accent lipgloss.Color) TablesPanel {
	contentH := max(h-2, 1)
	var views [tablesTabCount]components.ScrollView
	for i := range views {
		views[i] = components.NewScrollView(w, contentH)
	}
	views[TabDetail] = views[TabDetail].SetContent(detailPlaceholder)
	return TablesPanel{
		tabbar: components.NewTabBar(tablesTabLabels).SetAccent(accent).SetWidth(w),
		views:  views,
		width:  w,
		height: h,
	}
}

// SetSnapshot renders every collection into its tab. month selects the
// calendar page. The Detail tab is left as is.
func (p TablesPanel) SetSnapshot(snap repo.Snapshot, currency string, month time.Time) TablesPanel {
	st := stats.Compute(snap.Tournaments, snap.Sessions)
	p.views[TabTournaments] = p.views[TabTournaments].SetContent(report.Tournaments(snap.Tournaments))
	p.views[TabSessions] = p.views[TabSessions].SetContent(report.Sessions(snap.Sessions, snap.Tournaments, currency))
	p.views[TabBankroll] = p.views[TabBankroll].SetContent(report.Bankrolls(snap.Bankrolls))
	p.views[TabStats] = p.views[TabStats].SetContent(report.Stats(st, currency))
	p.views[TabCalendar] = p.views[TabCalendar].SetContent(report.Calendar(snap.Tournaments, month.Year(), month.Month()))
	return p
}

// SetDetail replaces the Detail tab content, keeping the scroll position
// and the active tab.
func (p TablesPanel) SetDetail(text string) TablesPanel {
	p.views[TabDetail] = p.views[TabDetail].SetContent(text)
	return p
}

// ShowDetail replaces the Detail tab content and makes it active.
func (p TablesPanel) ShowDetail(text string) TablesPanel {
	p.views[TabDetail] = p.views[TabDetail].SetContent(text).GotoTop()
	p.tabbar = p.tabbar.Select(int(TabDetail))
	return p
}

// ActiveTab returns the active tab.
func (p TablesPanel) ActiveTab() TablesTab {
	return TablesTab(p.tabbar.Active())
}

// ActiveLabel returns the title of the active tab.
func (p TablesPanel) ActiveLabel() string {
	return p.tabbar.ActiveLabel()
}

// ScrollOffset returns the scroll offset of the active view.
func (p TablesPanel) ScrollOffset() int {
	return p.views[p.ActiveTab()].ScrollOffset()
}

// SetSize resizes the tab bar and all views.
func (p TablesPanel) SetSize(w, h int) TablesPanel {
	p.width = w
	p.height = h
	contentH := max(h-2, 1)
	p.tabbar = p.tabbar.SetWidth(w)
	for i := range p.views {
		p.views[i] = p.views[i].SetSize(w, contentH)
	}
	return p
}

// Update handles key messages for the tables panel.
func (p TablesPanel) Update(msg tea.Msg) (TablesPanel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "]":
			p.tabbar = p.tabbar.Next()
			return p, nil
		case "[":
			p.tabbar = p.tabbar.Prev()
			return p, nil
		}
	}
	// Delegate scroll keys and mouse events to the active view.
	var cmd tea.Cmd
	active := p.ActiveTab()
	p.views[active], cmd = p.views[active].Update(msg)
	return p, cmd
}

// View renders the tab bar, a divider and the active view.
func (p TablesPanel) View() string {
	divider := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(strings.Repeat("─", max(p.width, 0)))
	return lipgloss.JoinVertical(lipgloss.Left, p.tabbar.View(), divider, p.views[p.ActiveTab()].View())
}

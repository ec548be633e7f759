package panels

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
)

// TournamentSelectedMsg is emitted when the user picks a tournament.
// Defined here (not in parent tui package) to avoid circular imports.
type TournamentSelectedMsg struct{ ID int64 }

// upcomingItem implements list.Item for a tournament.
type upcomingItem struct {
	t poker.Tournament
}

func (i upcomingItem) Title() string {
	return fmt.Sprintf("%s %s", i.t.Date, i.t.Title())
}

func (i upcomingItem) Description() string {
	status := i.t.Status
	if status == "" {
		status = "—"
	}
	return fmt.Sprintf("%.2f  %s", i.t.BuyIn, status)
}

func (i upcomingItem) FilterValue() string {
	return i.t.Title()
}

// upcomingDelegate renders one compact line per tournament.
type upcomingDelegate struct {
	selected lipgloss.Style
}

func (d upcomingDelegate) Height() int                             { return 1 }
func (d upcomingDelegate) Spacing() int                            { return 0 }
func (d upcomingDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d upcomingDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(upcomingItem)
	if !ok {
		return
	}
	s := fmt.Sprintf("%s  %s", item.Title(), item.Description())
	if maxW := m.Width() - 2; maxW > 0 {
		s = lipgloss.NewStyle().MaxWidth(maxW).Render(s)
	}
	if index == m.Index() {
		s = d.selected.Render("> " + s)
	} else {
		s = "  " + s
	}
	fmt.Fprint(w, s)
}

// UpcomingPanel lists the tournaments still ahead, soonest first.
type UpcomingPanel struct {
	list        list.Model
	tournaments []poker.Tournament
	width       int
	height      int
}

// NewUpcomingPanel creates an empty upcoming panel.
func NewUpcomingPanel(w, h int, accent lipgloss.Color) UpcomingPanel {
	delegate := upcomingDelegate{
		selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
	}
	l := list.New(nil, delegate, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return UpcomingPanel{
		list:   l,
		width:  w,
		height: h,
	}
}

// SetTournaments replaces the listed tournaments.
func (p UpcomingPanel) SetTournaments(ts []poker.Tournament) UpcomingPanel {
	p.tournaments = ts
	items := make([]list.Item, len(ts))
	for i, t := range ts {
		items[i] = upcomingItem{t: t}
	}
	p.list.SetItems(items)
	return p
}

// Selected returns the highlighted tournament, or nil when the list is empty.
func (p UpcomingPanel) Selected() *poker.Tournament {
	if item, ok := p.list.SelectedItem().(upcomingItem); ok {
		t := item.t
		return &t
	}
	return nil
}

// SetSize resizes the panel.
func (p UpcomingPanel) SetSize(w, h int) UpcomingPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	return p
}

// Update handles key/mouse messages for the panel.
func (p UpcomingPanel) Update(msg tea.Msg) (UpcomingPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "enter":
			if sel := p.Selected(); sel != nil {
				id := sel.ID
				return p, func() tea.Msg { return TournamentSelectedMsg{ID: id} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the list, or a placeholder when nothing is scheduled.
func (p UpcomingPanel) View() string {
	if len(p.tournaments) == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No upcoming tournaments")
	}
	return p.list.View()
}

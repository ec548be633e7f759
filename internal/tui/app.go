package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/report"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/tui/panels"
)

// upcomingLimit caps the number of tournaments listed in the sidebar.
const upcomingLimit = 50

// loadTimeout bounds a single snapshot read.
const loadTimeout = 10 * time.Second

// Options configures the dashboard.
type Options struct {
	Context         context.Context // parent of every load; Background when nil
	Backend         string
	DBPath          string
	Currency        string
	AccentColor     string
	RefreshInterval time.Duration // 0 disables auto-refresh
	Now             func() time.Time
}

// Model is the root bubbletea model for the dashboard.
type Model struct {
	loader Loader
	opts   Options

	// Sub-panels
	upcoming panels.UpcomingPanel
	tables   panels.TablesPanel

	// Layout and focus
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	// Data
	state    LoadState
	snapshot repo.Snapshot
	loadedAt time.Time
	detailID int64 // tournament shown on the Detail tab, 0 when none

	err error
}

// New creates the dashboard model. It reads nothing until Init runs.
func New(loader Loader, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	th := NewTheme(opts.AccentColor)
	layout := Calculate(80, 24)

	upW, upH := innerDims(layout.Upcoming)
	tabW, tabH := innerDims(layout.Tables)

	return Model{
		loader:   loader,
		opts:     opts,
		upcoming: panels.NewUpcomingPanel(upW, max(upH-1, 1), th.Accent()),
		tables:   panels.NewTablesPanel(tabW, tabH, th.Accent()),
		layout:   layout,
		focus:    FocusUpcoming,
		theme:    th,
		width:    80,
		height:   24,
		state:    StateLoading,
	}
}

// Err returns the error from the last failed load, if any.
func (m Model) Err() error { return m.err }

// Init loads the first snapshot and starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadCmd(m.opts.Context, m.loader, m.opts.Now), tickCmd(m.opts.RefreshInterval))
}

// loadCmd reads a snapshot off the bubbletea event loop.
func loadCmd(parent context.Context, loader Loader, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, loadTimeout)
		defer cancel()
		snap, err := loader.Snapshot(ctx)
		return snapshotLoadedMsg{Snapshot: snap, Err: err, At: now()}
	}
}

// tickCmd schedules the next auto-refresh, or nothing when d is zero.
func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case snapshotLoadedMsg:
		return m.handleSnapshot(msg)
	case tickMsg:
		next := tickCmd(m.opts.RefreshInterval)
		if reload := m.reload(); reload != nil {
			m.state = StateLoading
			return m, tea.Batch(reload, next)
		}
		return m, next
	case panels.TournamentSelectedMsg:
		return m.showDetail(msg.ID), nil
	}
	return m.delegateToFocused(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		upW, upH := innerDims(m.layout.Upcoming)
		tabW, tabH := innerDims(m.layout.Tables)
		m.upcoming = m.upcoming.SetSize(upW, max(upH-1, 1))
		m.tables = m.tables.SetSize(tabW, tabH)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if reload := m.reload(); reload != nil {
			m.state = StateLoading
			return m, reload
		}
		return m, nil
	case "tab":
		m.focus = m.focus.Next()
		return m, nil
	case "shift+tab":
		m.focus = m.focus.Prev()
		return m, nil
	case "1":
		m.focus = FocusUpcoming
		return m, nil
	case "2":
		m.focus = FocusTables
		return m, nil
	}
	return m.delegateToFocused(msg)
}

// reload returns a load command, or nil while a load is already in flight.
func (m Model) reload() tea.Cmd {
	if !m.state.CanTransitionTo(StateLoading) {
		return nil
	}
	return loadCmd(m.opts.Context, m.loader, m.opts.Now)
}

func (m Model) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusUpcoming:
		m.upcoming, cmd = m.upcoming.Update(msg)
	case FocusTables:
		m.tables, cmd = m.tables.Update(msg)
	}
	return m, cmd
}

func (m Model) handleSnapshot(msg snapshotLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if m.state.CanTransitionTo(StateFailed) {
			m.state = StateFailed
		}
		m.err = msg.Err
		return m, nil
	}
	if m.state.CanTransitionTo(StateReady) {
		m.state = StateReady
	}
	m.err = nil
	m.snapshot = msg.Snapshot
	m.loadedAt = msg.At

	now := m.opts.Now()
	today := now.Format(time.DateOnly)
	m.upcoming = m.upcoming.SetTournaments(report.Upcoming(m.snapshot.Tournaments, today, upcomingLimit))
	m.tables = m.tables.SetSnapshot(m.snapshot, m.opts.Currency, now)
	if m.detailID != 0 {
		if t, ok := m.findTournament(m.detailID); ok {
			m.tables = m.tables.SetDetail(report.TournamentDetail(t, m.snapshot.Sessions, m.opts.Currency))
		}
	}
	return m, nil
}

// showDetail renders the given tournament on the Detail tab and focuses it.
func (m Model) showDetail(id int64) Model {
	t, ok := m.findTournament(id)
	if !ok {
		return m
	}
	m.detailID = id
	m.tables = m.tables.ShowDetail(report.TournamentDetail(t, m.snapshot.Sessions, m.opts.Currency))
	m.focus = FocusTables
	return m
}

func (m Model) findTournament(id int64) (poker.Tournament, bool) {
	for _, t := range m.snapshot.Tournaments {
		if t.ID == id {
			return t, true
		}
	}
	return poker.Tournament{}, false
}

// View renders the full dashboard.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x24.", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		Backend:     m.opts.Backend,
		DBPath:      m.opts.DBPath,
		Tournaments: len(m.snapshot.Tournaments),
		Sessions:    len(m.snapshot.Sessions),
		Bankrolls:   len(m.snapshot.Bankrolls),
		StateSymbol: m.state.Symbol(),
		StateLabel:  m.state.Label(),
		LoadedAt:    m.loadedAt,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	errText := ""
	if m.err != nil {
		errText = m.err.Error()
	}
	footer := panels.RenderFooter(panels.FooterProps{
		Focus:        m.focus.String(),
		ActiveTab:    m.tables.ActiveLabel(),
		ScrollOffset: m.tables.ScrollOffset(),
		Err:          errText,
	}, m.layout.Footer.Width)

	upW, upH := innerDims(m.layout.Upcoming)
	balW, balH := innerDims(m.layout.Balance)
	tabW, tabH := innerDims(m.layout.Tables)

	upcoming := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.RenderTitle("Upcoming"),
		m.upcoming.View(),
	)
	balance := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.RenderTitle("Balance"),
		m.theme.RenderBalance(stats.Bankrolls(m.snapshot.Bankrolls)),
	)

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusUpcoming).
			Width(upW).Height(upH).MaxHeight(upH+2).
			Render(upcoming),
		m.theme.PanelBorderStyle(false).
			Width(balW).Height(balH).MaxHeight(balH+2).
			Render(balance),
	)

	var main string
	if m.state == StateFailed && m.snapshot.Tournaments == nil && m.snapshot.Sessions == nil && m.snapshot.Bankrolls == nil {
		main = errorStyle.Render("Could not load data: " + errText)
	} else {
		main = m.tables.View()
	}
	tables := m.theme.PanelBorderStyle(m.focus == FocusTables).
		Width(tabW).Height(tabH).MaxHeight(tabH + 2).
		Render(main)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, tables)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// innerDims returns the content dimensions for a panel rect accounting for
// the 1-character border on each side (2 total per dimension).
func innerDims(r Rect) (w, h int) {
	w = r.Width - 2
	if w < 1 {
		w = 1
	}
	h = r.Height - 2
	if h < 1 {
		h = 1
	}
	return
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/tui/panels"
)

var _ Loader = (*repo.Repository)(nil)

// fakeLoader returns a fixed snapshot or error and counts calls.
type fakeLoader struct {
	snap  repo.Snapshot
	err   error
	calls int
}

func (f *fakeLoader) Snapshot(context.Context) (repo.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

var fixedNow = time.Date(2025, time.June, 5, 12, 0, 0, 0, time.UTC)

func testSnapshot() repo.Snapshot {
	return repo.Snapshot{
		Tournaments: []poker.Tournament{
			{ID: 1, Name: "Past Event", Date: "2025-06-01", BuyIn: 10, Status: poker.StatusCompleted},
			{ID: 2, Name: "Sunday Million", Site: "Stars", Date: "2025-06-08", BuyIn: 215, Status: poker.StatusScheduled},
			{ID: 3, Name: "Midweek Grind", Site: "GG", Date: "2025-06-06T20:00", BuyIn: 22, Status: poker.StatusRegistered},
		},
		Sessions: []poker.Session{
			{ID: 1, Date: "2025-06-01", BuyIn: 10, Cashout: 35, TournamentID: 1},
			{ID: 2, Date: "2025-06-08", BuyIn: 215, Cashout: 0, TournamentID: 2},
		},
		Bankrolls: []poker.BankrollEntry{
			{ID: 1, Site: "Stars", Currency: "USD", Amount: 500},
		},
	}
}

func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func newTestModel(loader Loader) Model {
	return New(loader, Options{
		Backend:  "sqlite",
		DBPath:   "/tmp/pokertrack.db",
		Currency: "USD",
		Now:      func() time.Time { return fixedNow },
	})
}

// loaded returns a model that has processed one successful load.
func loaded(t *testing.T) (Model, *fakeLoader) {
	t.Helper()
	fl := &fakeLoader{snap: testSnapshot()}
	m := newTestModel(fl)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated, _ = updated.(Model).Update(snapshotLoadedMsg{Snapshot: fl.snap, At: fixedNow})
	return updated.(Model), fl
}

func TestNew_Defaults(t *testing.T) {
	m := New(&fakeLoader{}, Options{})
	if m.width != 80 || m.height != 24 {
		t.Errorf("expected default size 80x24, got %dx%d", m.width, m.height)
	}
	if m.focus != FocusUpcoming {
		t.Errorf("expected default focus FocusUpcoming, got %v", m.focus)
	}
	if m.state != StateLoading {
		t.Errorf("expected initial state StateLoading, got %v", m.state)
	}
	if m.opts.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", m.opts.Currency)
	}
	if m.opts.Now == nil {
		t.Error("Now should default to time.Now")
	}
	if m.opts.Context == nil {
		t.Error("Context should default to context.Background")
	}
}

func TestInit_LoadsSnapshot(t *testing.T) {
	fl := &fakeLoader{snap: testSnapshot()}
	m := newTestModel(fl)
	if m.Init() == nil {
		t.Fatal("Init() should return a non-nil command")
	}

	msg := loadCmd(m.opts.Context, fl, m.opts.Now)()
	loadedMsg, ok := msg.(snapshotLoadedMsg)
	if !ok {
		t.Fatalf("expected snapshotLoadedMsg, got %T", msg)
	}
	if fl.calls != 1 {
		t.Errorf("loader calls: got %d, want 1", fl.calls)
	}
	if len(loadedMsg.Snapshot.Tournaments) != 3 || !loadedMsg.At.Equal(fixedNow) {
		t.Errorf("unexpected message: %+v", loadedMsg)
	}
}

// ctxLoader fails with the context error once ctx is done.
type ctxLoader struct{}

func (ctxLoader) Snapshot(ctx context.Context) (repo.Snapshot, error) {
	return repo.Snapshot{}, ctx.Err()
}

func TestLoadUsesOptionsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctxLoader{}, Options{Context: ctx, Now: func() time.Time { return fixedNow }})

	msg := loadCmd(m.opts.Context, ctxLoader{}, m.opts.Now)().(snapshotLoadedMsg)
	if msg.Err != nil {
		t.Fatalf("live context: unexpected error %v", msg.Err)
	}

	cancel()
	msg = loadCmd(m.opts.Context, ctxLoader{}, m.opts.Now)().(snapshotLoadedMsg)
	if !errors.Is(msg.Err, context.Canceled) {
		t.Errorf("cancelled context: got %v, want context.Canceled", msg.Err)
	}
}

func TestUpdate_SnapshotLoaded(t *testing.T) {
	m, _ := loaded(t)

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v, want nil", m.Err())
	}
	if !m.loadedAt.Equal(fixedNow) {
		t.Errorf("loadedAt = %v", m.loadedAt)
	}

	// Upcoming skips completed and past tournaments, soonest first.
	sel := m.upcoming.Selected()
	if sel == nil || sel.ID != 3 {
		t.Errorf("first upcoming: got %+v, want ID 3", sel)
	}

	view := m.View()
	for _, want := range []string{
		"tournaments: 3", "sessions: 2", "bankroll: 1", "✓ READY",
		"Midweek Grind", "Sunday Million", "$500.00",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestUpdate_SnapshotFailed(t *testing.T) {
	m := newTestModel(&fakeLoader{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	loadErr := errors.New("database is locked")
	updated, _ = updated.(Model).Update(snapshotLoadedMsg{Err: loadErr})
	m2 := updated.(Model)

	if m2.state != StateFailed {
		t.Errorf("state = %v, want StateFailed", m2.state)
	}
	if !errors.Is(m2.Err(), loadErr) {
		t.Errorf("Err() = %v, want %v", m2.Err(), loadErr)
	}
	view := m2.View()
	for _, want := range []string{"✗ FAILED", "Could not load data", "database is locked"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestUpdate_FailedReloadKeepsData(t *testing.T) {
	m, _ := loaded(t)
	updated, _ := m.Update(keyMsg("r"))
	updated, _ = updated.(Model).Update(snapshotLoadedMsg{Err: errors.New("disk gone")})
	m2 := updated.(Model)

	if len(m2.snapshot.Tournaments) != 3 {
		t.Errorf("failed reload should keep the previous snapshot, got %d tournaments", len(m2.snapshot.Tournaments))
	}
	if strings.Contains(m2.View(), "Could not load data") {
		t.Error("tables should stay visible when earlier data exists")
	}

	// A later success clears the error.
	updated, _ = m2.Update(keyMsg("r"))
	updated, _ = updated.(Model).Update(snapshotLoadedMsg{Snapshot: testSnapshot(), At: fixedNow})
	if err := updated.(Model).Err(); err != nil {
		t.Errorf("Err() after successful reload = %v", err)
	}
}

func TestUpdate_Key_Reload(t *testing.T) {
	m, fl := loaded(t)

	updated, cmd := m.Update(keyMsg("r"))
	m2 := updated.(Model)
	if m2.state != StateLoading {
		t.Errorf("state after r = %v, want StateLoading", m2.state)
	}
	if cmd == nil {
		t.Fatal("r should return a load command")
	}
	if _, ok := cmd().(snapshotLoadedMsg); !ok {
		t.Error("load command should produce snapshotLoadedMsg")
	}
	if fl.calls != 1 {
		t.Errorf("loader calls: got %d, want 1", fl.calls)
	}

	// A second r while loading is ignored.
	if _, cmd := m2.Update(keyMsg("r")); cmd != nil {
		t.Error("r while loading should not start another load")
	}
}

func TestUpdate_Tick(t *testing.T) {
	t.Run("refresh disabled", func(t *testing.T) {
		if cmd := tickCmd(0); cmd != nil {
			t.Error("tickCmd(0) should be nil")
		}
	})

	t.Run("reloads when ready", func(t *testing.T) {
		m, _ := loaded(t)
		m.opts.RefreshInterval = time.Minute
		updated, cmd := m.Update(tickMsg(fixedNow))
		if updated.(Model).state != StateLoading {
			t.Errorf("state = %v, want StateLoading", updated.(Model).state)
		}
		if cmd == nil {
			t.Error("tick should return reload and next tick")
		}
	})

	t.Run("skips reload while loading", func(t *testing.T) {
		m := newTestModel(&fakeLoader{})
		m.opts.RefreshInterval = time.Minute
		updated, cmd := m.Update(tickMsg(fixedNow))
		if updated.(Model).state != StateLoading {
			t.Errorf("state = %v", updated.(Model).state)
		}
		if cmd == nil {
			t.Error("tick should still schedule the next tick")
		}
	})
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(&fakeLoader{})
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if cmd != nil {
		t.Error("WindowSizeMsg should return nil cmd")
	}
	m2 := updated.(Model)
	if m2.width != 120 || m2.height != 40 {
		t.Errorf("got dimensions %dx%d, want 120x40", m2.width, m2.height)
	}
	if m2.layout.TooSmall {
		t.Error("120x40 should not be TooSmall")
	}
}

func TestUpdate_Key_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyMsg("q"), {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			_, cmd := newTestModel(&fakeLoader{}).Update(key)
			if cmd == nil {
				t.Fatal("expected a quit cmd")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("cmd should produce tea.QuitMsg")
			}
		})
	}
}

func TestUpdate_Key_Focus(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want FocusTarget
	}{
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, FocusTables},
		{"shift+tab", tea.KeyMsg{Type: tea.KeyShiftTab}, FocusTables},
		{"1", keyMsg("1"), FocusUpcoming},
		{"2", keyMsg("2"), FocusTables},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, _ := newTestModel(&fakeLoader{}).Update(tt.key)
			if got := updated.(Model).focus; got != tt.want {
				t.Errorf("focus = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate_KeysRouteToFocusedPanel(t *testing.T) {
	m, _ := loaded(t)

	// Upcoming focused: j moves the selection.
	updated, _ := m.Update(keyMsg("j"))
	m2 := updated.(Model)
	if sel := m2.upcoming.Selected(); sel == nil || sel.ID != 2 {
		t.Errorf("after j in upcoming: got %+v, want ID 2", sel)
	}

	// Tables focused: ] switches tab, upcoming stays put.
	updated, _ = m2.Update(keyMsg("2"))
	updated, _ = updated.(Model).Update(keyMsg("]"))
	m3 := updated.(Model)
	if m3.tables.ActiveTab() != panels.TabSessions {
		t.Errorf("active tab = %v, want TabSessions", m3.tables.ActiveTab())
	}
	if sel := m3.upcoming.Selected(); sel == nil || sel.ID != 2 {
		t.Errorf("upcoming selection should not change, got %+v", sel)
	}
}

func TestUpdate_TournamentSelected(t *testing.T) {
	m, _ := loaded(t)

	updated, _ := m.Update(panels.TournamentSelectedMsg{ID: 2})
	m2 := updated.(Model)
	if m2.focus != FocusTables {
		t.Errorf("focus = %v, want FocusTables", m2.focus)
	}
	if m2.tables.ActiveTab() != panels.TabDetail {
		t.Errorf("active tab = %v, want TabDetail", m2.tables.ActiveTab())
	}
	if m2.detailID != 2 {
		t.Errorf("detailID = %d, want 2", m2.detailID)
	}
	view := m2.View()
	for _, want := range []string{"Sunday Million", "Sessions (1)", "-$215.00"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	t.Run("unknown id is ignored", func(t *testing.T) {
		updated, _ := m.Update(panels.TournamentSelectedMsg{ID: 99})
		if updated.(Model).detailID != 0 || updated.(Model).focus != FocusUpcoming {
			t.Error("unknown tournament should leave the model unchanged")
		}
	})

	t.Run("reload refreshes detail", func(t *testing.T) {
		snap := testSnapshot()
		snap.Tournaments[1].Name = "Sunday Million Special"
		updated, _ := m2.Update(keyMsg("r"))
		updated, _ = updated.(Model).Update(snapshotLoadedMsg{Snapshot: snap, At: fixedNow})
		if !strings.Contains(updated.(Model).View(), "Sunday Million Special") {
			t.Error("detail should be re-rendered from the new snapshot")
		}
	})
}

func TestUpdate_EnterInUpcomingEmitsSelection(t *testing.T) {
	m, _ := loaded(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	msg, ok := cmd().(panels.TournamentSelectedMsg)
	if !ok || msg.ID != 3 {
		t.Errorf("expected TournamentSelectedMsg{ID: 3}, got %#v", cmd())
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newTestModel(&fakeLoader{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	view := updated.(Model).View()
	if !strings.Contains(strings.ToLower(view), "too small") {
		t.Errorf("View() for small terminal should contain 'too small', got: %q", view)
	}
}

func TestView_Loading(t *testing.T) {
	m := newTestModel(&fakeLoader{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	view := updated.(Model).View()
	for _, want := range []string{"♠ PokerTrack", "● LOADING", "Upcoming", "Balance", "No upcoming tournaments"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

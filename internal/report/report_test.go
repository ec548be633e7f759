package report

import (
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
)

func checkOutput(t *testing.T, got string, contains, excludes []string) {
	t.Helper()
	for _, want := range contains {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q\ngot:\n%s", want, got)
		}
	}
	for _, exclude := range excludes {
		if strings.Contains(got, exclude) {
			t.Errorf("output should NOT contain %q\ngot:\n%s", exclude, got)
		}
	}
}

var tournaments = []poker.Tournament{
	{ID: 1, Name: "Sunday Million", Site: "Stars", Date: "2025-06-01T18:00", BuyIn: 215, GameType: "NLHE", Status: poker.StatusScheduled, ReEntryCount: 2},
	{ID: 2, Site: "GG", Date: "2025-06-15", BuyIn: 11},
}

func TestTournaments(t *testing.T) {
	tests := []struct {
		name     string
		in       []poker.Tournament
		contains []string
		excludes []string
	}{
		{
			name:     "empty",
			contains: []string{NoTournaments},
			excludes: []string{"Buy-In"},
		},
		{
			name: "rows",
			in:   tournaments,
			contains: []string{
				"Buy-In", "Re-entries",
				"Sunday Million", "215.00", "NLHE", "Scheduled",
				"GG", "11.00", "—",
			},
			excludes: []string{NoTournaments},
		},
		{
			name:     "long name truncated",
			in:       []poker.Tournament{{ID: 3, Name: "An Extremely Long Tournament Name Indeed", Date: "2025-01-01"}},
			contains: []string{"An Extremely Long Tou…"},
			excludes: []string{"Indeed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkOutput(t, Tournaments(tt.in), tt.contains, tt.excludes)
		})
	}
}

func TestSessions(t *testing.T) {
	sessions := []poker.Session{
		{ID: 1, Date: "2025-06-01", BuyIn: 215, Cashout: 0, Site: "Stars", TournamentID: 1},
		{ID: 2, Date: "2025-06-02", BuyIn: 11, Cashout: 40.5, TournamentID: 99},
		{ID: 3, Date: "2025-06-03", BuyIn: 5, Cashout: 5},
	}

	got := Sessions(sessions, tournaments, "USD")
	checkOutput(t, got,
		[]string{
			"$215.00", "-$215.00", "2025-06-01T18:00 | Sunday Million | 215.00",
			"$40.50", "+$29.50", "Unknown",
			"$0.00",
		},
		[]string{NoSessions},
	)

	checkOutput(t, Sessions(nil, nil, "USD"), []string{NoSessions}, nil)
}

func TestBankrolls(t *testing.T) {
	entries := []poker.BankrollEntry{
		{ID: 1, Site: "Stars", Currency: "USD", Amount: 100, Date: "2025-06-01", Notes: "deposit"},
		{ID: 2, Site: "Stars", Currency: "USD", Amount: -30},
		{ID: 3, Site: "Unibet", Currency: "EUR", Amount: 50},
	}

	got := Bankrolls(entries)
	checkOutput(t, got,
		[]string{"+$100.00", "-$30.00", "deposit", "Balance", "EUR", "(1 entries)", "$70.00", "(2 entries)"},
		[]string{NoBankrolls},
	)
	balance := got[strings.Index(got, "Balance"):]
	if strings.Index(balance, "EUR") > strings.Index(balance, "USD") {
		t.Errorf("currencies should be listed alphabetically\n%s", balance)
	}

	checkOutput(t, Bankrolls(nil), []string{NoBankrolls}, []string{"Balance"})
}

func TestStats(t *testing.T) {
	st := stats.Compute(tournaments, []poker.Session{
		{BuyIn: 100, Cashout: 150},
		{BuyIn: 50, Cashout: 20},
	})
	got := Stats(st, "USD")
	checkOutput(t, got,
		[]string{
			"Tournaments:         2",
			"Sessions:            2",
			"$150.00", "$170.00",
			"Net profit:          +$20.00",
			"Win rate:            50.0% (1 of 2)",
		},
		nil,
	)

	empty := Stats(stats.Compute(nil, nil), "USD")
	checkOutput(t, empty, []string{"Win rate:            0.0% (0 of 0)", "Net profit:          $0.00"}, nil)
}

func TestCalendar(t *testing.T) {
	got := Calendar(tournaments, 2025, time.June)
	lines := strings.Split(got, "\n")

	if lines[0] != "June 2025" {
		t.Errorf("title: got %q", lines[0])
	}
	if lines[1] != " Mo  Tu  We  Th  Fr  Sa  Su " {
		t.Errorf("weekday header: got %q", lines[1])
	}
	// 1 June 2025 is a Sunday: six empty cells then day 1.
	if !strings.HasPrefix(lines[2], strings.Repeat("    ", 6)+"  1*") {
		t.Errorf("first week: got %q", lines[2])
	}
	checkOutput(t, got,
		[]string{" 15*", "  2 ", "Sunday Million", "GG"},
		[]string{"No tournaments this month", " 31"},
	)

	empty := Calendar(tournaments, 2025, time.July)
	checkOutput(t, empty, []string{"July 2025", "No tournaments this month.", " 31"}, []string{"*"})
}

func TestUpcoming(t *testing.T) {
	ts := []poker.Tournament{
		{ID: 1, Date: "2025-06-10", Status: poker.StatusScheduled},
		{ID: 2, Date: "2025-06-01", Status: poker.StatusScheduled},
		{ID: 3, Date: "2025-06-05T20:00", Status: poker.StatusRegistered},
		{ID: 4, Date: "2025-06-06", Status: poker.StatusCompleted},
		{ID: 5, Date: "2025-06-20"},
	}

	got := Upcoming(ts, "2025-06-05", 2)
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("got %+v", got)
	}
	if all := Upcoming(ts, "2025-06-05", 10); len(all) != 3 {
		t.Errorf("expected 3 upcoming, got %d", len(all))
	}
}

func TestTournamentDetail(t *testing.T) {
	sessions := []poker.Session{
		{ID: 1, Date: "2025-06-01", BuyIn: 215, Cashout: 500, TournamentID: 1},
		{ID: 2, Date: "2025-06-02", BuyIn: 215, Cashout: 0, TournamentID: 1},
		{ID: 3, Date: "2025-06-03", BuyIn: 11, Cashout: 90, TournamentID: 2},
	}

	got := TournamentDetail(tournaments[0], sessions, "USD")
	checkOutput(t, got,
		[]string{"Sunday Million", "Stars", "$215.00", "NLHE", "Scheduled", "Sessions (2)", "+$285.00", "-$215.00", "Net:                   +$70.00"},
		[]string{"No sessions recorded", "$90.00"},
	)

	none := TournamentDetail(tournaments[1], nil, "USD")
	checkOutput(t, none, []string{"GG", "No sessions recorded."}, []string{"Sessions ("})
}

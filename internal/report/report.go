// Package report renders tournaments, sessions, bankroll entries and
// statistics as fixed-width text for the CLI and the dashboard.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
)

// Messages shown for empty collections.
const (
	NoTournaments = "No tournaments yet."
	NoSessions    = "No sessions yet."
	NoBankrolls   = "No bankroll entries yet."
)

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func money(f float64, currency string) string {
	return stats.FormatMoney(decimal.NewFromFloat(f), currency)
}

// Tournaments renders one line per tournament under a header.
func Tournaments(ts []poker.Tournament) string {
	if len(ts) == 0 {
		return NoTournaments
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4s  %-16s  %-22s  %9s  %-6s  %-10s  %-10s  %s\n",
		"ID", "Date", "Tournament", "Buy-In", "Game", "Format", "Status", "Re-entries")
	sb.WriteString(strings.Repeat("─", 96))
	for _, t := range ts {
		fmt.Fprintf(&sb, "\n%4d  %-16s  %-22s  %9.2f  %-6s  %-10s  %-10s  %d",
			t.ID,
			truncate(t.Date, 16),
			truncate(t.Title(), 22),
			t.BuyIn,
			truncate(orDash(t.GameType), 6),
			truncate(orDash(t.Format), 10),
			truncate(orDash(t.Status), 10),
			t.ReEntryCount,
		)
	}
	return sb.String()
}

// Sessions renders one line per session. Each session's tournament is
// resolved against tournaments; a dangling reference shows as Unknown.
func Sessions(ss []poker.Session, tournaments []poker.Tournament, currency string) string {
	if len(ss) == 0 {
		return NoSessions
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4s  %-16s  %-12s  %11s  %11s  %12s  %s\n",
		"ID", "Date", "Site", "Buy-In", "Cashout", "Profit", "Tournament")
	sb.WriteString(strings.Repeat("─", 100))
	for _, s := range ss {
		label := "—"
		if s.TournamentID != 0 {
			label = repo.TournamentLabel(tournaments, s.TournamentID)
		}
		fmt.Fprintf(&sb, "\n%4d  %-16s  %-12s  %11s  %11s  %12s  %s",
			s.ID,
			truncate(s.Date, 16),
			truncate(orDash(s.Site), 12),
			money(s.BuyIn, currency),
			money(s.Cashout, currency),
			stats.FormatSigned(decimal.NewFromFloat(s.Profit()), currency),
			label,
		)
	}
	return sb.String()
}

// Bankrolls renders one line per entry followed by the balance per currency.
func Bankrolls(bs []poker.BankrollEntry) string {
	if len(bs) == 0 {
		return NoBankrolls
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%4s  %-16s  %-12s  %-4s  %14s  %s\n", "ID", "Site", "Date", "Cur", "Amount", "Notes")
	sb.WriteString(strings.Repeat("─", 72))
	for _, b := range bs {
		fmt.Fprintf(&sb, "\n%4d  %-16s  %-12s  %-4s  %14s  %s",
			b.ID,
			truncate(b.Site, 16),
			truncate(orDash(b.Date), 12),
			b.Currency,
			stats.FormatSigned(decimal.NewFromFloat(b.Amount), b.Currency),
			b.Notes,
		)
	}
	sb.WriteString("\n\n")
	sb.WriteString(BankrollTotals(bs))
	return sb.String()
}

// BankrollTotals renders the balance held in each currency.
func BankrollTotals(bs []poker.BankrollEntry) string {
	totals := stats.Bankrolls(bs)
	if len(totals) == 0 {
		return NoBankrolls
	}
	lines := make([]string, 0, len(totals)+1)
	lines = append(lines, "Balance")
	for _, ct := range totals {
		lines = append(lines, fmt.Sprintf("  %-4s %14s  (%d entries)", ct.Currency, stats.FormatMoney(ct.Total, ct.Currency), ct.Entries))
	}
	return strings.Join(lines, "\n")
}

// Stats renders the aggregate statistics as key-value lines.
func Stats(st stats.Stats, currency string) string {
	lines := []string{
		fmt.Sprintf("%-20s %d", "Tournaments:", st.TotalTournaments),
		fmt.Sprintf("%-20s %d", "Sessions:", st.TotalSessions),
		fmt.Sprintf("%-20s %s", "Total buy-in:", stats.FormatMoney(st.TotalBuyIn, currency)),
		fmt.Sprintf("%-20s %s", "Total cashout:", stats.FormatMoney(st.TotalCashout, currency)),
		fmt.Sprintf("%-20s %s", "Net profit:", stats.FormatSigned(st.NetProfit, currency)),
		fmt.Sprintf("%-20s %s%% (%d of %d)", "Win rate:", st.WinRateString(), st.WinSessions, st.TotalSessions),
	}
	return strings.Join(lines, "\n")
}

// Calendar renders a Monday-first month grid. Days with at least one
// tournament are marked with "*" and listed below the grid.
func Calendar(ts []poker.Tournament, year int, month time.Month) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	offset := (int(first.Weekday()) + 6) % 7

	var sb strings.Builder
	sb.WriteString(first.Format("January 2006"))
	sb.WriteString("\n")
	for _, wd := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		fmt.Fprintf(&sb, "%3s ", wd)
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("    ", offset))

	var events []string
	for d := 1; d <= days; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
		mark := " "
		if on := repo.TournamentsOn(ts, day); len(on) > 0 {
			mark = "*"
			for _, t := range on {
				events = append(events, fmt.Sprintf("  %-16s  %-22s  %9.2f  %s",
					truncate(t.Date, 16), truncate(t.Title(), 22), t.BuyIn, orDash(t.Status)))
			}
		}
		fmt.Fprintf(&sb, "%3d%s", d, mark)
		if (offset+d)%7 == 0 && d != days {
			sb.WriteString("\n")
		}
	}

	if len(events) == 0 {
		sb.WriteString("\n\nNo tournaments this month.")
		return sb.String()
	}
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(events, "\n"))
	return sb.String()
}

// Upcoming lists tournaments that are not completed and fall on or after
// today, soonest first, limited to n entries.
func Upcoming(ts []poker.Tournament, today string, n int) []poker.Tournament {
	sorted := repo.FilterTournaments(ts, repo.Query{SortBy: repo.SortDate})
	var out []poker.Tournament
	for _, t := range sorted {
		if len(out) == n {
			break
		}
		if t.Status == poker.StatusCompleted || t.Date < today {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TournamentDetail renders one tournament with the sessions played in it
// and their combined result.
func TournamentDetail(t poker.Tournament, sessions []poker.Session, currency string) string {
	lines := []string{
		t.Title(),
		"",
		fmt.Sprintf("%-22s %d", "ID:", t.ID),
		fmt.Sprintf("%-22s %s", "Date:", t.Date),
		fmt.Sprintf("%-22s %s", "Site:", orDash(t.Site)),
		fmt.Sprintf("%-22s %s", "Buy-in:", money(t.BuyIn, currency)),
		fmt.Sprintf("%-22s %s", "Game type:", orDash(t.GameType)),
		fmt.Sprintf("%-22s %s", "Format:", orDash(t.Format)),
		fmt.Sprintf("%-22s %s", "Status:", orDash(t.Status)),
		fmt.Sprintf("%-22s %s", "Registration window:", orDash(t.RegistrationWindow)),
		fmt.Sprintf("%-22s %d", "Re-entries:", t.ReEntryCount),
		fmt.Sprintf("%-22s %s", "Add-on:", orDash(t.Addon)),
	}

	var played []poker.Session
	for _, s := range sessions {
		if s.TournamentID == t.ID {
			played = append(played, s)
		}
	}
	if len(played) == 0 {
		return strings.Join(append(lines, "", "No sessions recorded."), "\n")
	}

	st := stats.Compute(nil, played)
	lines = append(lines, "", fmt.Sprintf("Sessions (%d)", len(played)))
	for _, s := range played {
		lines = append(lines, fmt.Sprintf("  %-16s  %11s  %11s  %12s",
			truncate(s.Date, 16),
			money(s.BuyIn, currency),
			money(s.Cashout, currency),
			stats.FormatSigned(decimal.NewFromFloat(s.Profit()), currency),
		))
	}
	lines = append(lines, fmt.Sprintf("%-22s %s", "Net:", stats.FormatSigned(st.NetProfit, currency)))
	return strings.Join(lines, "\n")
}

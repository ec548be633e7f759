package main

import (
	"fmt"
	"strings"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/backup"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/stats"
)

func formatScaffoldResult(created []string) string {
	if len(created) == 0 {
		return "All files already exist, nothing to create.\n"
	}
	var b strings.Builder
	for _, path := range created {
		fmt.Fprintf(&b, "Created %s\n", path)
	}
	return b.String()
}

// formatBulkResult summarises a bulk add, listing each rejected line.
func formatBulkResult(res repo.BulkResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added %d tournaments", res.Added)
	if res.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", res.Failed)
	}
	b.WriteString("\n")
	for _, err := range res.Errors {
		fmt.Fprintf(&b, "  ✗ %v\n", err)
	}
	return b.String()
}

// formatImportResult reports what an import wrote. On failure the counts are
// the records written before the error.
func formatImportResult(res backup.Result, err error) string {
	counts := fmt.Sprintf("%d tournaments, %d sessions, %d bankroll entries",
		res.Tournaments, res.Sessions, res.Bankrolls)
	if err != nil {
		return fmt.Sprintf("Import stopped after %d records (%s)\n", res.Total(), counts)
	}
	return fmt.Sprintf("Imported %d records (%s)\n", res.Total(), counts)
}

func formatSiteTotals(entries []poker.BankrollEntry) string {
	var b strings.Builder
	b.WriteString("By site\n")
	b.WriteString("───────\n")
	for _, st := range stats.BySite(entries) {
		site := st.Site
		if site == "" {
			site = "-"
		}
		fmt.Fprintf(&b, "  %-20s %s\n", site, stats.FormatSigned(st.Total, st.Currency))
	}
	return b.String()
}

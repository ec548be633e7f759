package backup

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
)

var csvHeader = []string{
	"Date", "Site", "Buy-In", "Game Type", "Format", "Status",
	"Registration Window", "Re-Entry Count", "Addon",
}

// WriteTournamentCSV writes one row per tournament after a header row.
// Every field is double-quoted; missing values are written as "".
func WriteTournamentCSV(w io.Writer, tournaments []poker.Tournament) error {
	bw := bufio.NewWriter(w)
	writeCSVRow(bw, csvHeader)
	for _, t := range tournaments {
		writeCSVRow(bw, []string{
			t.Date,
			t.Site,
			strconv.FormatFloat(t.BuyIn, 'f', -1, 64),
			t.GameType,
			t.Format,
			t.Status,
			t.RegistrationWindow,
			reEntries(t.ReEntryCount),
			t.Addon,
		})
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("backup: write csv: %w", err)
	}
	return nil
}

// writeCSVRow quotes every field unconditionally, which encoding/csv does
// not support.
func writeCSVRow(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// reEntries renders the count, leaving an unset (zero) count empty.
func reEntries(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

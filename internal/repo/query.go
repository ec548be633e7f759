package repo

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
)

// Unknown labels a session whose tournament reference is unset or dangling.
const Unknown = "Unknown"

// TournamentLabel describes the tournament with id for display next to a
// session, or returns Unknown if it does not exist.
func TournamentLabel(tournaments []poker.Tournament, id int64) string {
	if id == 0 {
		return Unknown
	}
	for _, t := range tournaments {
		if t.ID == id {
			return fmt.Sprintf("%s | %s | %.2f", t.Date, t.Title(), t.BuyIn)
		}
	}
	return Unknown
}

// Sort fields accepted by Query.SortBy.
const (
	SortDate         = "date"
	SortSite         = "site"
	SortName         = "name"
	SortBuyIn        = "buyin"
	SortReEntryCount = "reEntryCount"
)

// SortFields lists the accepted sort fields.
var SortFields = []string{SortDate, SortSite, SortName, SortBuyIn, SortReEntryCount}

// Query selects and orders tournaments.
type Query struct {
	Search string // case-insensitive match on name, site, game type, format or date
	Status string // exact status match; empty matches all
	SortBy string // one of SortFields; empty keeps input order
	Desc   bool
}

// FilterTournaments returns the tournaments matching q, ordered as q asks.
// The input slice is not modified.
func FilterTournaments(tournaments []poker.Tournament, q Query) []poker.Tournament {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]poker.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if needle != "" && !matches(t, needle) {
			continue
		}
		out = append(out, t)
	}

	if q.SortBy == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b poker.Tournament) int {
		c := compareBy(q.SortBy, a, b)
		if q.Desc {
			return -c
		}
		return c
	})
	return out
}

func matches(t poker.Tournament, needle string) bool {
	for _, field := range []string{t.Name, t.Site, t.GameType, t.Format} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return strings.Contains(t.Date, needle)
}

func compareBy(field string, a, b poker.Tournament) int {
	switch field {
	case SortSite:
		return cmp.Compare(a.Site, b.Site)
	case SortName:
		return cmp.Compare(a.Name, b.Name)
	case SortBuyIn:
		return cmp.Compare(a.BuyIn, b.BuyIn)
	case SortReEntryCount:
		return cmp.Compare(a.ReEntryCount, b.ReEntryCount)
	default:
		return cmp.Compare(a.Date, b.Date)
	}
}

// TournamentsOn returns the tournaments whose date falls on day (YYYY-MM-DD).
func TournamentsOn(tournaments []poker.Tournament, day string) []poker.Tournament {
	var out []poker.Tournament
	for _, t := range tournaments {
		if strings.HasPrefix(t.Date, day) {
			out = append(out, t)
		}
	}
	return out
}

// BulkResult counts the outcome of BulkAddTournaments.
type BulkResult struct {
	Added  int
	Failed int
	Errors []error // one per failed line, prefixed with the line number
}

// BulkAddTournaments reads one tournament per line in the form
// "Name,Date,Buyin" and adds each valid one. Blank lines are ignored. A bad
// line is counted as failed and does not stop the rest. Storage failures
// abort the import and are returned.
func (r *Repository) BulkAddTournaments(ctx context.Context, in io.Reader) (BulkResult, error) {
	var res BulkResult
	scanner := bufio.NewScanner(in)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		t, err := parseBulkLine(line)
		if err == nil {
			_, err = r.AddTournament(ctx, t)
		}
		if err != nil {
			var verr *poker.ValidationError
			if !errors.As(err, &verr) {
				return res, fmt.Errorf("repo: bulk add line %d: %w", lineNo, err)
			}
			res.Failed++
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		res.Added++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("repo: bulk add: %w", err)
	}
	return res, nil
}

func parseBulkLine(line string) (poker.Tournament, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return poker.Tournament{}, &poker.ValidationError{
			Kind:   "tournament",
			Fields: []poker.FieldError{{Field: "line", Message: "must have the form Name,Date,Buyin"}},
		}
	}
	buyin, err := poker.ParseAmount("tournament", "buyin", parts[2])
	if err != nil {
		return poker.Tournament{}, err
	}
	return poker.Tournament{
		Name:  strings.TrimSpace(parts[0]),
		Date:  strings.TrimSpace(parts[1]),
		BuyIn: buyin,
	}, nil
}

// Package backup exports every collection to a single JSON document,
// restores from one, and writes the tournament CSV.
package backup

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
)

// Default file names used when the caller does not pick one.
const (
	DefaultBackupFile = "poker-tracker-backup.json"
	DefaultCSVFile    = "tournaments.csv"
)

// Top-level keys of the backup document.
const (
	KeyTournaments = "tournaments"
	KeySessions    = "sessions"
	KeyBankrolls   = "bankrolls"
)

// Document is the backup file layout.
type Document struct {
	Tournaments []poker.Tournament    `json:"tournaments"`
	Sessions    []poker.Session       `json:"sessions"`
	Bankrolls   []poker.BankrollEntry `json:"bankrolls"`
}

// Source provides the data to export.
type Source interface {
	Snapshot(ctx context.Context) (repo.Snapshot, error)
}

// Sink receives imported records. Each Put upserts by id; id 0 inserts.
type Sink interface {
	PutTournament(ctx context.Context, t poker.Tournament) (int64, error)
	PutSession(ctx context.Context, s poker.Session) (int64, error)
	PutBankroll(ctx context.Context, b poker.BankrollEntry) (int64, error)
}

// FormatError reports a backup document that could not be imported.
// Collection and Index locate the offending record. Collection is empty for
// document-level problems and Index is -1 when no single record is at fault.
type FormatError struct {
	Collection string
	Index      int
	Err        error
}

func (e *FormatError) Error() string {
	switch {
	case e.Collection == "":
		return fmt.Sprintf("backup: malformed document: %v", e.Err)
	case e.Index < 0:
		return fmt.Sprintf("backup: %s: %v", e.Collection, e.Err)
	default:
		return fmt.Sprintf("backup: %s[%d]: %v", e.Collection, e.Index, e.Err)
	}
}

func (e *FormatError) Unwrap() error { return e.Err }

// Export writes the full content of src to w as indented JSON. Records are
// ordered by id.
func Export(ctx context.Context, src Source, w io.Writer) error {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("backup: export: %w", err)
	}
	doc := Document{
		Tournaments: sortedByID(snap.Tournaments, func(t poker.Tournament) int64 { return t.ID }),
		Sessions:    sortedByID(snap.Sessions, func(s poker.Session) int64 { return s.ID }),
		Bankrolls:   sortedByID(snap.Bankrolls, func(b poker.BankrollEntry) int64 { return b.ID }),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("backup: export: %w", err)
	}
	return nil
}

func sortedByID[T any](in []T, id func(T) int64) []T {
	out := make([]T, len(in))
	copy(out, in)
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}

// Result counts the records written by Import.
type Result struct {
	Tournaments int
	Sessions    int
	Bankrolls   int
}

// Total is the number of records written.
func (r Result) Total() int {
	return r.Tournaments + r.Sessions + r.Bankrolls
}

// Import reads a backup document from r and upserts every record into dst in
// document order. Unknown top-level keys are skipped and absent collections
// are left untouched. A malformed document or invalid record stops the
// import with a *FormatError; records written before that point stay.
// Importing the same document twice leaves the same state as importing it
// once, except that records without an id are inserted again each time.
func Import(ctx context.Context, dst Sink, r io.Reader) (Result, error) {
	var res Result
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return res, &FormatError{Index: -1, Err: err}
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return res, &FormatError{Index: -1, Err: err}
		}
		key, _ := tok.(string)

		switch key {
		case KeyTournaments:
			err = importCollection(dec, key, "tournament", []string{"buyin"}, func(t poker.Tournament) error {
				if _, err := dst.PutTournament(ctx, t); err != nil {
					return err
				}
				res.Tournaments++
				return nil
			})
		case KeySessions:
			err = importCollection(dec, key, "session", []string{"buyin", "cashout"}, func(s poker.Session) error {
				if _, err := dst.PutSession(ctx, s); err != nil {
					return err
				}
				res.Sessions++
				return nil
			})
		case KeyBankrolls:
			err = importCollection(dec, key, "bankroll entry", []string{"amount"}, func(b poker.BankrollEntry) error {
				if _, err := dst.PutBankroll(ctx, b); err != nil {
					return err
				}
				res.Bankrolls++
				return nil
			})
		default:
			var skip json.RawMessage
			if derr := dec.Decode(&skip); derr != nil {
				err = &FormatError{Index: -1, Err: derr}
			}
		}
		if err != nil {
			return res, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return res, &FormatError{Index: -1, Err: err}
	}
	return res, nil
}

// importCollection decodes one array value and hands each element to put.
// A null value is treated like an absent key. Each element must carry the
// numeric fields listed in required, since decoding would turn an absent
// number into zero.
func importCollection[T any](dec *json.Decoder, key, kind string, required []string, put func(T) error) error {
	tok, err := dec.Token()
	if err != nil {
		return &FormatError{Collection: key, Index: -1, Err: err}
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return &FormatError{Collection: key, Index: -1, Err: fmt.Errorf("expected array, got %v", tok)}
	}

	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return &FormatError{Collection: key, Index: i, Err: err}
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return &FormatError{Collection: key, Index: i, Err: err}
		}
		if err := checkPresent(raw, kind, required); err != nil {
			return &FormatError{Collection: key, Index: i, Err: err}
		}
		if err := put(v); err != nil {
			var verr *poker.ValidationError
			if errors.As(err, &verr) {
				return &FormatError{Collection: key, Index: i, Err: err}
			}
			return fmt.Errorf("backup: import %s[%d]: %w", key, i, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return &FormatError{Collection: key, Index: -1, Err: err}
	}
	return nil
}

// checkPresent reports every field in required that raw lacks or sets to
// null as a *poker.ValidationError.
func checkPresent(raw json.RawMessage, kind string, required []string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	verr := &poker.ValidationError{Kind: kind}
	for _, f := range required {
		if v, ok := fields[f]; !ok || string(v) == "null" {
			verr.Fields = append(verr.Fields, poker.FieldError{Field: f, Message: "is required"})
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("expected %q, got end of input", want)
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// Package repo is the typed facade over the store. Every add and update is
// validated before it reaches the store; rejected records are never written.
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/poker"
	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/store"
)

// Repository reads and writes tournaments, sessions and bankroll entries.
type Repository struct {
	store store.Store
}

// New returns a Repository over s. The caller owns s and closes it.
func New(s store.Store) *Repository {
	return &Repository{store: s}
}

// Snapshot is the full content of every collection at one point in time.
type Snapshot struct {
	Tournaments []poker.Tournament
	Sessions    []poker.Session
	Bankrolls   []poker.BankrollEntry
}

// Snapshot lists all three collections.
func (r *Repository) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Tournaments, err = r.ListTournaments(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Sessions, err = r.ListSessions(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Bankrolls, err = r.ListBankrolls(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// record is implemented by the three record kinds.
type record interface {
	poker.Tournament | poker.Session | poker.BankrollEntry
}

// encode marshals v for storage. The id is carried by the store key; callers
// zero it in the document and decode restores it from the key.
func encode(table store.Table, v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("repo: encode %s: %w", table, err)
	}
	return data, nil
}

// decodeAll unmarshals records and stamps each with its store id.
func decodeAll[T record](table store.Table, recs []store.Record, setID func(*T, int64)) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			return nil, fmt.Errorf("repo: decode %s %d: %w", table, rec.ID, err)
		}
		setID(&v, rec.ID)
		out = append(out, v)
	}
	return out, nil
}

func decodeOne[T record](table store.Table, rec store.Record, setID func(*T, int64)) (T, error) {
	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return v, fmt.Errorf("repo: decode %s %d: %w", table, rec.ID, err)
	}
	setID(&v, rec.ID)
	return v, nil
}

// add validates and inserts v, returning the assigned id.
func (r *Repository) add(ctx context.Context, table store.Table, v any, validate func() error) (int64, error) {
	if err := validate(); err != nil {
		return 0, err
	}
	data, err := encode(table, v)
	if err != nil {
		return 0, err
	}
	return r.store.Insert(ctx, table, data)
}

// update validates and replaces the record at id.
func (r *Repository) update(ctx context.Context, table store.Table, id int64, v any, validate func() error) error {
	if err := validate(); err != nil {
		return err
	}
	data, err := encode(table, v)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, table, id, data)
}

// put validates and upserts v at id. id 0 inserts a new record and a
// negative id is rejected as invalid input.
func (r *Repository) put(ctx context.Context, table store.Table, id int64, v any, validate func() error) (int64, error) {
	if id < 0 {
		return 0, &poker.ValidationError{
			Kind:   kinds[table],
			Fields: []poker.FieldError{{Field: "id", Message: fmt.Sprintf("must be >= 0, got %d", id)}},
		}
	}
	if id == 0 {
		return r.add(ctx, table, v, validate)
	}
	if err := validate(); err != nil {
		return 0, err
	}
	data, err := encode(table, v)
	if err != nil {
		return 0, err
	}
	return id, r.store.Put(ctx, table, id, data)
}

// kinds names the record kind stored in each table.
var kinds = map[store.Table]string{
	store.Tournaments: "tournament",
	store.Sessions:    "session",
	store.Bankrolls:   "bankroll entry",
}

// Tournaments

func setTournamentID(t *poker.Tournament, id int64) { t.ID = id }

// AddTournament validates t and stores it under a fresh id.
func (r *Repository) AddTournament(ctx context.Context, t poker.Tournament) (int64, error) {
	t = t.Normalize()
	t.ID = 0
	return r.add(ctx, store.Tournaments, t, t.Validate)
}

// ListTournaments returns every tournament.
func (r *Repository) ListTournaments(ctx context.Context) ([]poker.Tournament, error) {
	recs, err := r.store.GetAll(ctx, store.Tournaments)
	if err != nil {
		return nil, err
	}
	return decodeAll(store.Tournaments, recs, setTournamentID)
}

// GetTournament returns the tournament with id, or an error matching
// store.ErrNotFound.
func (r *Repository) GetTournament(ctx context.Context, id int64) (poker.Tournament, error) {
	rec, err := r.store.Get(ctx, store.Tournaments, id)
	if err != nil {
		return poker.Tournament{}, err
	}
	return decodeOne(store.Tournaments, rec, setTournamentID)
}

// UpdateTournament replaces the tournament at id with t.
func (r *Repository) UpdateTournament(ctx context.Context, id int64, t poker.Tournament) error {
	t = t.Normalize()
	t.ID = 0
	return r.update(ctx, store.Tournaments, id, t, t.Validate)
}

// PutTournament upserts t by its id. An id of 0 inserts.
func (r *Repository) PutTournament(ctx context.Context, t poker.Tournament) (int64, error) {
	id := t.ID
	t = t.Normalize()
	t.ID = 0
	return r.put(ctx, store.Tournaments, id, t, t.Validate)
}

// DeleteTournament removes the tournament at id. Sessions referencing it are
// left untouched.
func (r *Repository) DeleteTournament(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, store.Tournaments, id)
}

// Sessions

func setSessionID(s *poker.Session, id int64) { s.ID = id }

// AddSession validates s and stores it under a fresh id.
func (r *Repository) AddSession(ctx context.Context, s poker.Session) (int64, error) {
	s = s.Normalize()
	s.ID = 0
	return r.add(ctx, store.Sessions, s, s.Validate)
}

// ListSessions returns every session.
func (r *Repository) ListSessions(ctx context.Context) ([]poker.Session, error) {
	recs, err := r.store.GetAll(ctx, store.Sessions)
	if err != nil {
		return nil, err
	}
	return decodeAll(store.Sessions, recs, setSessionID)
}

// GetSession returns the session with id, or an error matching
// store.ErrNotFound.
func (r *Repository) GetSession(ctx context.Context, id int64) (poker.Session, error) {
	rec, err := r.store.Get(ctx, store.Sessions, id)
	if err != nil {
		return poker.Session{}, err
	}
	return decodeOne(store.Sessions, rec, setSessionID)
}

// UpdateSession replaces the session at id with s.
func (r *Repository) UpdateSession(ctx context.Context, id int64, s poker.Session) error {
	s = s.Normalize()
	s.ID = 0
	return r.update(ctx, store.Sessions, id, s, s.Validate)
}

// PutSession upserts s by its id. An id of 0 inserts.
func (r *Repository) PutSession(ctx context.Context, s poker.Session) (int64, error) {
	id := s.ID
	s = s.Normalize()
	s.ID = 0
	return r.put(ctx, store.Sessions, id, s, s.Validate)
}

// DeleteSession removes the session with id. A missing id is not an error.
func (r *Repository) DeleteSession(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, store.Sessions, id)
}

// Bankroll entries

func setBankrollID(b *poker.BankrollEntry, id int64) { b.ID = id }

// AddBankroll validates b and stores it under a fresh id.
func (r *Repository) AddBankroll(ctx context.Context, b poker.BankrollEntry) (int64, error) {
	b = b.Normalize()
	b.ID = 0
	return r.add(ctx, store.Bankrolls, b, b.Validate)
}

// ListBankrolls returns every bankroll entry.
func (r *Repository) ListBankrolls(ctx context.Context) ([]poker.BankrollEntry, error) {
	recs, err := r.store.GetAll(ctx, store.Bankrolls)
	if err != nil {
		return nil, err
	}
	return decodeAll(store.Bankrolls, recs, setBankrollID)
}

// GetBankroll returns the bankroll entry with id, or an error matching
// store.ErrNotFound.
func (r *Repository) GetBankroll(ctx context.Context, id int64) (poker.BankrollEntry, error) {
	rec, err := r.store.Get(ctx, store.Bankrolls, id)
	if err != nil {
		return poker.BankrollEntry{}, err
	}
	return decodeOne(store.Bankrolls, rec, setBankrollID)
}

// UpdateBankroll replaces the entry at id with b.
func (r *Repository) UpdateBankroll(ctx context.Context, id int64, b poker.BankrollEntry) error {
	b = b.Normalize()
	b.ID = 0
	return r.update(ctx, store.Bankrolls, id, b, b.Validate)
}

// PutBankroll upserts b by its id. An id of 0 inserts.
func (r *Repository) PutBankroll(ctx context.Context, b poker.BankrollEntry) (int64, error) {
	id := b.ID
	b = b.Normalize()
	b.ID = 0
	return r.put(ctx, store.Bankrolls, id, b, b.Validate)
}

// DeleteBankroll removes the bankroll entry with id. A missing id is not an error.
func (r *Repository) DeleteBankroll(ctx context.Context, id int64) error {
	return r.store.Delete(ctx, store.Bankrolls, id)
}

package tui

import (
	"context"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
)

// Loader supplies the dashboard with the current content of the store.
// *repo.Repository satisfies it.
type Loader interface {
	Snapshot(ctx context.Context) (repo.Snapshot, error)
}

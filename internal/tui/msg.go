package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.PokerTrack/internal/repo"
)

// snapshotLoadedMsg carries the result of a store read.
type snapshotLoadedMsg struct {
	Snapshot repo.Snapshot
	Err      error
	At       time.Time
}

// tickMsg fires on the auto-refresh interval.
type tickMsg time.Time

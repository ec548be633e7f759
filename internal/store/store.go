// Package store persists tracker records in one logical table per record
// kind. Records are opaque JSON documents keyed by an int64 id the store
// assigns on insert. Ids are monotonic per table and never reused, even after
// the record holding them is deleted.
//
// One Store is opened per process in cmd/pokertrack and handed to the
// repository; there is no package-level connection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Table names a collection of records.
type Table string

const (
	Tournaments Table = "tournaments"
	Sessions    Table = "sessions"
	Bankrolls   Table = "bankrolls"
)

// Tables lists every table a store manages.
var Tables = []Table{Tournaments, Sessions, Bankrolls}

// Valid reports whether t is one of Tables.
func (t Table) Valid() bool {
	for _, known := range Tables {
		if t == known {
			return true
		}
	}
	return false
}

// Record is one stored document and its id.
type Record struct {
	ID   int64
	Data json.RawMessage
}

// ErrNotFound is returned by Get and Update when the id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrUnknownTable is returned for a table outside Tables.
var ErrUnknownTable = errors.New("unknown table")

// Error is a failure of the underlying medium (disk, database). It is never
// used for ErrNotFound.
type Error struct {
	Op    string
	Table Table
	Err   error
}

func (e *Error) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Writer mutates tables.
type Writer interface {
	// Insert stores data under a fresh id and returns it.
	Insert(ctx context.Context, table Table, data json.RawMessage) (int64, error)
	// Update replaces the record at id. Missing ids yield ErrNotFound.
	Update(ctx context.Context, table Table, id int64, data json.RawMessage) error
	// Put inserts or replaces the record at id. The table's id sequence
	// advances past id so later inserts never collide with it.
	Put(ctx context.Context, table Table, id int64, data json.RawMessage) error
	// Delete removes the record at id. Deleting a missing id is a no-op.
	Delete(ctx context.Context, table Table, id int64) error
}

// Reader reads tables.
type Reader interface {
	Get(ctx context.Context, table Table, id int64) (Record, error)
	// GetAll returns every record of table. Callers must not rely on order.
	GetAll(ctx context.Context, table Table) ([]Record, error)
}

// Store combines Writer and Reader into a single process-scoped handle.
type Store interface {
	Writer
	Reader
	Close() error
}

// Compactor is implemented by stores that can reclaim space.
type Compactor interface {
	Compact(ctx context.Context) error
}

// check validates the common preconditions of every operation.
func check(ctx context.Context, op string, table Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !table.Valid() {
		return &Error{Op: op, Table: table, Err: ErrUnknownTable}
	}
	return nil
}

func checkID(op string, table Table, id int64) error {
	if id <= 0 {
		return &Error{Op: op, Table: table, Err: fmt.Errorf("invalid id %d", id)}
	}
	return nil
}

func notFound(op string, table Table, id int64) error {
	return fmt.Errorf("store: %s %s %d: %w", op, table, id, ErrNotFound)
}

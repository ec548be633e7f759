package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// maxLineSize bounds a single journal line.
const maxLineSize = 4 << 20

// JSONL is a Store backed by an append-only JSONL journal. Each line is a
// put or delete of one record. The file is synced after every append, and the
// whole journal is replayed into memory when opened.
type JSONL struct {
	file *os.File
	path string
	mu   sync.Mutex
	idx  *fileIndex
}

// NewJSONL opens (or creates) the journal at path. The parent directory is
// created if missing. Malformed lines are logged and skipped.
func NewJSONL(path string) (*JSONL, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	idx, err := replay(f, path)
	if err != nil {
		_ = f.Close()
		return nil, &Error{Op: "replay", Err: err}
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		_ = f.Close()
		return nil, &Error{Op: "seek", Err: err}
	}
	slog.Debug("opened jsonl store", "path", path)
	return &JSONL{file: f, path: path, idx: idx}, nil
}

// replay reads every journal line from r into a fresh index.
func replay(r io.Reader, path string) (*fileIndex, error) {
	idx := newFileIndex()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e journalEntry
		if err := json.Unmarshal(line, &e); err != nil {
			slog.Warn("store: skipping malformed journal line", "path", path, "line", lineNo, "error", err)
			continue
		}
		if !e.Table.Valid() || e.ID <= 0 {
			slog.Warn("store: skipping journal line", "path", path, "line", lineNo, "table", e.Table, "id", e.ID)
			continue
		}
		idx.onAppend(e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return idx, nil
}

// append writes entry as one line, syncs, and applies it to the index.
// Callers hold j.mu.
func (j *JSONL) append(op string, entry journalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return &Error{Op: op, Table: entry.Table, Err: fmt.Errorf("marshal: %w", err)}
	}
	data = append(data, '\n')
	if _, err := j.file.Write(data); err != nil {
		return &Error{Op: op, Table: entry.Table, Err: err}
	}
	if err := j.file.Sync(); err != nil {
		return &Error{Op: op, Table: entry.Table, Err: err}
	}
	entry.Data = slices.Clone(entry.Data)
	j.idx.onAppend(entry)
	return nil
}

// Insert implements Writer.
func (j *JSONL) Insert(ctx context.Context, table Table, data json.RawMessage) (int64, error) {
	if err := check(ctx, "insert", table); err != nil {
		return 0, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	id := j.idx.nextID(table)
	if err := j.append("insert", journalEntry{Op: opPut, Table: table, ID: id, Data: data}); err != nil {
		return 0, err
	}
	return id, nil
}

// Update implements Writer.
func (j *JSONL) Update(ctx context.Context, table Table, id int64, data json.RawMessage) error {
	if err := check(ctx, "update", table); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.idx.get(table, id); !ok {
		return notFound("update", table, id)
	}
	return j.append("update", journalEntry{Op: opPut, Table: table, ID: id, Data: data})
}

// Put implements Writer.
func (j *JSONL) Put(ctx context.Context, table Table, id int64, data json.RawMessage) error {
	if err := check(ctx, "put", table); err != nil {
		return err
	}
	if err := checkID("put", table, id); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.append("put", journalEntry{Op: opPut, Table: table, ID: id, Data: data})
}

// Delete implements Writer. Nothing is written for a missing id.
func (j *JSONL) Delete(ctx context.Context, table Table, id int64) error {
	if err := check(ctx, "delete", table); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.idx.get(table, id); !ok {
		return nil
	}
	return j.append("delete", journalEntry{Op: opDelete, Table: table, ID: id})
}

// Get implements Reader.
func (j *JSONL) Get(ctx context.Context, table Table, id int64) (Record, error) {
	if err := check(ctx, "get", table); err != nil {
		return Record{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	data, ok := j.idx.get(table, id)
	if !ok {
		return Record{}, notFound("get", table, id)
	}
	return Record{ID: id, Data: append(json.RawMessage(nil), data...)}, nil
}

// GetAll implements Reader. The returned slice is a copy and safe to mutate.
func (j *JSONL) GetAll(ctx context.Context, table Table) ([]Record, error) {
	if err := check(ctx, "list", table); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.idx.all(table), nil
}

// Compact rewrites the journal so it holds one put per live record plus the
// id sequence of each table. The new file replaces the old one atomically.
func (j *JSONL) Compact(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(j.path), ".pokertrack-compact-*.tmp")
	if err != nil {
		return &Error{Op: "compact", Err: err}
	}
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return &Error{Op: "compact", Err: err}
	}

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, table := range Tables {
		if last := j.idx.tables[table].lastID; last > 0 {
			if err := enc.Encode(journalEntry{Op: opSeq, Table: table, ID: last}); err != nil {
				return fail(err)
			}
		}
		for _, rec := range j.idx.all(table) {
			if err := enc.Encode(journalEntry{Op: opPut, Table: table, ID: rec.ID, Data: rec.Data}); err != nil {
				return fail(err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &Error{Op: "compact", Err: err}
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		os.Remove(tmp.Name())
		return &Error{Op: "compact", Err: err}
	}

	f, err := os.OpenFile(j.path, os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return &Error{Op: "compact", Err: fmt.Errorf("reopen: %w", err)}
	}
	_ = j.file.Close()
	j.file = f
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

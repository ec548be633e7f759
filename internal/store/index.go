package store

import (
	"encoding/json"
	"slices"
)

// journal operations.
const (
	opPut    = "put"
	opDelete = "delete"
	opSeq    = "seq" // records the highest id ever assigned; written by Compact
)

// journalEntry is one line of the JSONL journal.
type journalEntry struct {
	Op    string          `json:"op"`
	Table Table           `json:"table"`
	ID    int64           `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// tableIndex is the replayed state of one table.
type tableIndex struct {
	records map[int64]json.RawMessage
	lastID  int64 // highest id ever seen, deleted or not
}

// fileIndex maintains the in-memory view of the journal. It is updated by
// onAppend as each entry is replayed or written.
type fileIndex struct {
	tables map[Table]*tableIndex
}

func newFileIndex() *fileIndex {
	idx := &fileIndex{tables: make(map[Table]*tableIndex, len(Tables))}
	for _, t := range Tables {
		idx.tables[t] = &tableIndex{records: make(map[int64]json.RawMessage)}
	}
	return idx
}

// onAppend applies entry to the index. Entries for unknown tables are ignored.
func (idx *fileIndex) onAppend(entry journalEntry) {
	ti, ok := idx.tables[entry.Table]
	if !ok {
		return
	}
	if entry.ID > ti.lastID {
		ti.lastID = entry.ID
	}
	switch entry.Op {
	case opPut:
		ti.records[entry.ID] = entry.Data
	case opDelete:
		delete(ti.records, entry.ID)
	}
}

// nextID returns the id the next insert into table receives.
func (idx *fileIndex) nextID(table Table) int64 {
	return idx.tables[table].lastID + 1
}

func (idx *fileIndex) get(table Table, id int64) (json.RawMessage, bool) {
	data, ok := idx.tables[table].records[id]
	return data, ok
}

// all returns a copy of table's records in id order.
func (idx *fileIndex) all(table Table) []Record {
	ti := idx.tables[table]
	out := make([]Record, 0, len(ti.records))
	for id, data := range ti.records {
		out = append(out, Record{ID: id, Data: slices.Clone(data)})
	}
	slices.SortFunc(out, func(a, b Record) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

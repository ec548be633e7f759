package store

import "fmt"

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSONL  = "jsonl"
)

// Open opens the store for backend at path.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return NewSQLite(path)
	case BackendJSONL:
		return NewJSONL(path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q (want %q or %q)", backend, BackendSQLite, BackendJSONL)
	}
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a SQLite database file. Each table keeps its
// documents in a data column; AUTOINCREMENT keeps ids from being reused.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens (or creates) the database at path and runs migrations.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &Error{Op: "open", Err: fmt.Errorf("create database directory: %w", err)}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &Error{Op: "open", Err: fmt.Errorf("connect: %w", err)}
	}

	s := &SQLite{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &Error{Op: "migrate", Err: err}
	}
	slog.Debug("opened sqlite store", "path", path)
	return s, nil
}

// migrate creates the schema.
func (s *SQLite) migrate() error {
	for _, table := range Tables {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			data TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`, table)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

// Insert implements Writer.
func (s *SQLite) Insert(ctx context.Context, table Table, data json.RawMessage) (int64, error) {
	if err := check(ctx, "insert", table); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (data) VALUES (?)`, table),
		string(data),
	)
	if err != nil {
		return 0, &Error{Op: "insert", Table: table, Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, &Error{Op: "insert", Table: table, Err: err}
	}
	return id, nil
}

// Update implements Writer.
func (s *SQLite) Update(ctx context.Context, table Table, id int64, data json.RawMessage) error {
	if err := check(ctx, "update", table); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, table),
		string(data), id,
	)
	if err != nil {
		return &Error{Op: "update", Table: table, Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &Error{Op: "update", Table: table, Err: err}
	}
	if n == 0 {
		return notFound("update", table, id)
	}
	return nil
}

// Put implements Writer. SQLite advances the AUTOINCREMENT sequence past an
// explicit id on its own.
func (s *SQLite) Put(ctx context.Context, table Table, id int64, data json.RawMessage) error {
	if err := check(ctx, "put", table); err != nil {
		return err
	}
	if err := checkID("put", table, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, data) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`, table),
		id, string(data),
	)
	if err != nil {
		return &Error{Op: "put", Table: table, Err: err}
	}
	return nil
}

// Delete implements Writer.
func (s *SQLite) Delete(ctx context.Context, table Table, id int64) error {
	if err := check(ctx, "delete", table); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id); err != nil {
		return &Error{Op: "delete", Table: table, Err: err}
	}
	return nil
}

// Get implements Reader.
func (s *SQLite) Get(ctx context.Context, table Table, id int64) (Record, error) {
	if err := check(ctx, "get", table); err != nil {
		return Record{}, err
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE id = ?`, table), id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound("get", table, id)
	}
	if err != nil {
		return Record{}, &Error{Op: "get", Table: table, Err: err}
	}
	return Record{ID: id, Data: json.RawMessage(data)}, nil
}

// GetAll implements Reader.
func (s *SQLite) GetAll(ctx context.Context, table Table) ([]Record, error) {
	if err := check(ctx, "list", table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, data FROM %s ORDER BY id`, table))
	if err != nil {
		return nil, &Error{Op: "list", Table: table, Err: err}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, &Error{Op: "list", Table: table, Err: err}
		}
		records = append(records, Record{ID: id, Data: json.RawMessage(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "list", Table: table, Err: err}
	}
	return records, nil
}

// Compact runs VACUUM.
func (s *SQLite) Compact(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return &Error{Op: "compact", Err: err}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

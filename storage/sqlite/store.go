// Package sqlite implements the local storage backend on a single-file
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"alisa/core"
	"alisa/storage"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Config holds configuration for the SQLite backend.
type Config struct {
	// Path is the database file path.
	Path string `json:"path"`
}

// Store is a storage.Backend backed by a SQLite file. Every operation opens
// a fresh connection, ensures the schema, and closes the connection before
// returning.
type Store struct {
	path   string
	logger *core.Logger
}

// New creates a SQLite store writing to the given file path.
func New(cfg Config, logger *core.Logger) *Store {
	return &Store{path: cfg.Path, logger: logger}
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", s.path, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ensure schema: %w", err)
	}
	return db, nil
}

// Save inserts each non-system turn as a new row. The inserts run as a plain
// loop without a transaction: if one insert fails, the rows already written
// stay committed and the remaining rows are not attempted. There is no
// atomicity across the batch.
func (s *Store) Save(ctx context.Context, sessionID, userName string, turns []core.Turn) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, t := range turns {
		if t.Role == core.RoleSystem {
			continue
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO messages (session_id, user_name, role, content) VALUES (?, ?, ?, ?);`,
			sessionID, userName, string(t.Role), t.Content,
		)
		if err != nil {
			return fmt.Errorf("sqlite: insert turn: %w", err)
		}
	}
	return nil
}

// Load selects turns by session id when set, else by user name, newest-first
// capped at the query limit, and returns them oldest-first.
func (s *Store) Load(ctx context.Context, q storage.Query) ([]core.Turn, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	limit := q.Limit
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	var rows *sql.Rows
	if q.SessionID != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT role, content FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?;`,
			q.SessionID, limit,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT role, content FROM messages WHERE user_name = ? ORDER BY id DESC LIMIT ?;`,
			q.UserName, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("sqlite: scan turn: %w", err)
		}
		turns = append(turns, core.Turn{Role: core.Role(role), Content: content})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate turns: %w", err)
	}

	storage.Reverse(turns)
	return turns, nil
}

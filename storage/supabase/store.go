// Package supabase implements the remote storage backend on a hosted
// Supabase table reached through its PostgREST API.
package supabase

import (
	"context"
	"fmt"

	"alisa/core"
	"alisa/storage"

	"github.com/bytedance/sonic"
	"github.com/supabase-community/postgrest-go"
)

const defaultTable = "messages"

// Config holds configuration for the Supabase backend.
type Config struct {
	// URL is the project REST endpoint, e.g. https://xyz.supabase.co/rest/v1.
	URL string `json:"url"`
	// Key is the service or anon API key.
	Key string `json:"key"`
	// Table overrides the table name. Defaults to "messages".
	Table string `json:"table,omitempty"`
}

// Store is a storage.Backend backed by a Supabase table. A fresh PostgREST
// client is built per operation; nothing is pooled or held across calls.
type Store struct {
	config Config
	logger *core.Logger
}

// New creates a Supabase store for the given project config.
func New(cfg Config, logger *core.Logger) *Store {
	if cfg.Table == "" {
		cfg.Table = defaultTable
	}
	return &Store{config: cfg, logger: logger}
}

type messageRow struct {
	SessionID string `json:"session_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

func (s *Store) client() *postgrest.Client {
	headers := map[string]string{
		"apikey":        s.config.Key,
		"Authorization": "Bearer " + s.config.Key,
	}
	return postgrest.NewClient(s.config.URL, "public", headers)
}

// Save inserts all non-system turns as a single batch. Unlike the SQLite
// backend's insert loop, the batch either lands whole or not at all; a
// failure is reported as one error for the caller to surface as a warning.
//
// The PostgREST client does not take a request context; per the resource
// model, a blocked call runs to its transport timeout. ctx is accepted for
// interface symmetry only.
func (s *Store) Save(_ context.Context, sessionID, userName string, turns []core.Turn) error {
	payload := make([]messageRow, 0, len(turns))
	for _, t := range turns {
		if t.Role == core.RoleSystem {
			continue
		}
		payload = append(payload, messageRow{
			SessionID: sessionID,
			UserName:  userName,
			Role:      string(t.Role),
			Content:   t.Content,
		})
	}
	if len(payload) == 0 {
		return nil
	}

	_, _, err := s.client().From(s.config.Table).Insert(payload, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("supabase: insert %d rows: %w", len(payload), err)
	}
	return nil
}

// Load selects role/content rows filtered by session id (preferred) or user
// name, ordered by id descending and capped at the query limit, then
// reverses into oldest-first order.
func (s *Store) Load(_ context.Context, q storage.Query) ([]core.Turn, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	fb := s.client().From(s.config.Table).Select("role,content", "", false)
	if q.SessionID != "" {
		fb = fb.Eq("session_id", q.SessionID)
	} else if q.UserName != "" {
		fb = fb.Eq("user_name", q.UserName)
	}

	data, _, err := fb.
		Order("id", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("supabase: fetch turns: %w", err)
	}

	var rows []messageRow
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("supabase: decode turns: %w", err)
	}

	turns := make([]core.Turn, 0, len(rows))
	for _, r := range rows {
		turns = append(turns, core.Turn{Role: core.Role(r.Role), Content: r.Content})
	}
	storage.Reverse(turns)
	return turns, nil
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dailyscore/leaderboard-api/internal/kv"
)

// EntryStore implements kv.Store on the kv_entries table
type EntryStore struct {
	db *DB
}

// NewEntryStore creates a store backed by db
func NewEntryStore(db *DB) *EntryStore {
	return &EntryStore{db: db}
}

// Put upserts value as JSONB under key
func (s *EntryStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	query := `
		INSERT INTO kv_entries (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("%w: failed to upsert %s: %w", kv.ErrUnavailable, key, err)
	}
	return nil
}

// Get decodes the value stored under key into dst
func (s *EntryStore) Get(ctx context.Context, key string, dst any) error {
	var data []byte
	query := `SELECT value FROM kv_entries WHERE key = $1`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return kv.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: failed to fetch %s: %w", kv.ErrUnavailable, key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal value for %s: %w", key, err)
	}
	return nil
}

// ListKeys returns every key in the table
func (s *EntryStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv_entries ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %w", kv.ErrUnavailable, err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: failed to scan key: %w", kv.ErrUnavailable, err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate keys: %w", kv.ErrUnavailable, err)
	}
	return keys, nil
}

// Ping checks that the database is reachable
func (s *EntryStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", kv.ErrUnavailable, err)
	}
	return nil
}

var _ kv.Store = (*EntryStore)(nil)

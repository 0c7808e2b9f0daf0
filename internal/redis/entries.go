package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dailyscore/leaderboard-api/internal/kv"
)

// DefaultKeyPrefix namespaces entry keys inside a shared Redis database
const DefaultKeyPrefix = "leaderboard:entry:"

// scanCount is the SCAN batch hint
const scanCount = 100

// EntryStore implements kv.Store on plain Redis string keys holding JSON
type EntryStore struct {
	client *Client
	prefix string
}

// NewEntryStore creates a store whose keys live under prefix
func NewEntryStore(client *Client, prefix string) *EntryStore {
	return &EntryStore{client: client, prefix: prefix}
}

// Put stores value as JSON under key without expiration
func (s *EntryStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to set %s: %w", kv.ErrUnavailable, key, err)
	}
	return nil
}

// Get decodes the JSON stored under key into dst
func (s *EntryStore) Get(ctx context.Context, key string, dst any) error {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return kv.ErrNotFound
		}
		return fmt.Errorf("%w: failed to get %s: %w", kv.ErrUnavailable, key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal value for %s: %w", key, err)
	}
	return nil
}

// ListKeys scans every key under the prefix and returns them without it.
// SCAN may yield a key more than once, so results are deduplicated.
func (s *EntryStore) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})

	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		key := strings.TrimPrefix(iter.Val(), s.prefix)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to scan keys: %w", kv.ErrUnavailable, err)
	}
	return keys, nil
}

// Ping checks that Redis is reachable
func (s *EntryStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", kv.ErrUnavailable, err)
	}
	return nil
}

package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dailyscore/leaderboard-api/internal/kv"
)

// document is one key-value pair; the value is kept as its JSON encoding
type document struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// EntryStore implements kv.Store on a single collection
type EntryStore struct {
	coll *mongo.Collection
}

// NewEntryStore creates a store backed by coll
func NewEntryStore(coll *mongo.Collection) *EntryStore {
	return &EntryStore{coll: coll}
}

// Put upserts value under key
func (s *EntryStore) Put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	_, err = s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		document{Key: key, Value: string(data)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert %s: %w", kv.ErrUnavailable, key, err)
	}
	return nil
}

// Get decodes the value stored under key into dst
func (s *EntryStore) Get(ctx context.Context, key string, dst any) error {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return kv.ErrNotFound
		}
		return fmt.Errorf("%w: failed to find %s: %w", kv.ErrUnavailable, key, err)
	}

	if err := json.Unmarshal([]byte(doc.Value), dst); err != nil {
		return fmt.Errorf("failed to unmarshal value for %s: %w", key, err)
	}
	return nil
}

// ListKeys returns every document id in the collection
func (s *EntryStore) ListKeys(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %w", kv.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	keys := []string{}
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode key: %w", err)
		}
		keys = append(keys, doc.Key)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate keys: %w", kv.ErrUnavailable, err)
	}
	return keys, nil
}

// Ping checks that the primary is reachable
func (s *EntryStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", kv.ErrUnavailable, err)
	}
	return nil
}

var _ kv.Store = (*EntryStore)(nil)

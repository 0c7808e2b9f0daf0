package leaderboard

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/dailyscore/leaderboard-api/internal/kv"
	"github.com/dailyscore/leaderboard-api/internal/models"
)

const missingFieldsMessage = "Missing required fields"

// Service records leaderboard entries and lists the ones dated today
type Service struct {
	store kv.Store
	now   func() time.Time
	newID func() (string, error)
}

// NewService creates a leaderboard service on top of the given store
func NewService(store kv.Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: GenerateEntryID,
	}
}

// SubmitEntry validates and persists a new entry under a fresh id
func (s *Service) SubmitEntry(ctx context.Context, req *models.SubmitEntryRequest) (*models.Entry, error) {
	if err := validateSubmitRequest(req); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, &StorageError{Op: "generate id", Err: err}
	}

	entry := &models.Entry{
		ID:    id,
		Name:  req.Name,
		Score: *req.Score,
		Time:  req.Time,
		Date:  DateOf(s.now()),
	}

	if err := s.store.Put(ctx, id, entry); err != nil {
		return nil, &StorageError{Op: "put", Err: err}
	}

	return entry, nil
}

// ListTodayEntries returns every entry dated today, highest score first.
// Entries with equal scores keep key order, which is creation order for
// generated ids.
func (s *Service) ListTodayEntries(ctx context.Context) ([]models.Entry, error) {
	// One date for the whole scan
	today := DateOf(s.now())

	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list keys", Err: err}
	}
	sort.Strings(keys)

	entries := make([]models.Entry, 0, len(keys))
	for _, key := range keys {
		var entry models.Entry
		if err := s.store.Get(ctx, key, &entry); err != nil {
			switch {
			case errors.Is(err, kv.ErrNotFound):
				// Removed between list and get
				continue
			case errors.Is(err, kv.ErrUnavailable):
				return nil, &StorageError{Op: "get", Err: err}
			default:
				log.Printf("[Leaderboard] Skipping unreadable entry %s: %v", key, err)
				continue
			}
		}

		if entry.Date != today {
			continue
		}
		entry.ID = key
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	return entries, nil
}

// validateSubmitRequest checks that name, score and time are all present.
// A score of zero is a valid score.
func validateSubmitRequest(req *models.SubmitEntryRequest) error {
	if req == nil {
		return &ValidationError{Message: missingFieldsMessage}
	}
	if req.Name == "" {
		return &ValidationError{Field: "name", Message: missingFieldsMessage}
	}
	if req.Score == nil {
		return &ValidationError{Field: "score", Message: missingFieldsMessage}
	}
	if isBlankJSON(req.Time) {
		return &ValidationError{Field: "time", Message: missingFieldsMessage}
	}
	return nil
}

// isBlankJSON reports whether raw is absent, null, an empty string or false
func isBlankJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", `""`, "false":
		return true
	}
	return false
}

package models

import "encoding/json"

// Entry represents one leaderboard submission as persisted in the store.
// ID is the store key and is not part of the stored or returned JSON.
type Entry struct {
	ID    string          `json:"-"`
	Name  string          `json:"name"`
	Score float64         `json:"score"`
	Time  json.RawMessage `json:"time"`
	Date  string          `json:"date"`
}

// SubmitEntryRequest represents the request body for a new entry.
// Score is a pointer so an absent score can be told apart from zero.
type SubmitEntryRequest struct {
	Name  string          `json:"name"`
	Score *float64        `json:"score"`
	Time  json.RawMessage `json:"time"`
}

// MessageResponse is the body of every non-list response
type MessageResponse struct {
	Message string `json:"message"`
}

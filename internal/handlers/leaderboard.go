package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/dailyscore/leaderboard-api/internal/leaderboard"
	"github.com/dailyscore/leaderboard-api/internal/models"
)

// maxBodyBytes caps the size of a submission body
const maxBodyBytes = 1 << 20

const (
	msgEntryAdded     = "Leaderboard entry added successfully"
	msgInvalidBody    = "Invalid request body"
	msgBodyTooLarge   = "Request body too large"
	msgAddFailed      = "Failed to add leaderboard entry"
	msgRetrieveFailed = "Failed to retrieve leaderboard entries"
)

type LeaderboardHandler struct {
	service *leaderboard.Service
}

func NewLeaderboardHandler(service *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetLeaderboard returns today's entries, highest score first
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListTodayEntries(r.Context())
	if err != nil {
		log.Printf("[Leaderboard] Error retrieving leaderboard entries: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Message: msgRetrieveFailed})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// SubmitEntry records a new entry dated today
func (h *LeaderboardHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitEntryRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, models.MessageResponse{Message: msgBodyTooLarge})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: msgInvalidBody})
		return
	}

	entry, err := h.service.SubmitEntry(r.Context(), &req)
	if err != nil {
		var vErr *leaderboard.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: vErr.Message})
			return
		}
		log.Printf("[Leaderboard] Error adding leaderboard entry: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Message: msgAddFailed})
		return
	}

	log.Printf("[Leaderboard] Entry added: %s (ID: %s, score: %g)", entry.Name, entry.ID, entry.Score)
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: msgEntryAdded})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

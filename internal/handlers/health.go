package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dailyscore/leaderboard-api/internal/kv"
)

type HealthHandler struct {
	store kv.Store
}

func NewHealthHandler(store kv.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check reports whether the backing store answers a ping
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log.Printf("[API] Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "store connection failed",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

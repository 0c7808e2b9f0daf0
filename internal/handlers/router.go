package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dailyscore/leaderboard-api/internal/middleware"
)

// NewRouter wires the API routes. metricsHandler is mounted at /metrics when non-nil.
func NewRouter(lb *LeaderboardHandler, health *HealthHandler, metrics *middleware.Metrics, metricsHandler http.Handler) http.Handler {
	r := mux.NewRouter()

	if metrics != nil {
		r.Use(metrics.Middleware)
	}

	// Health check
	r.HandleFunc("/health", health.Check).Methods(http.MethodGet)

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	// Leaderboard routes
	r.HandleFunc("/leaderboard", lb.GetLeaderboard).Methods(http.MethodGet)
	r.HandleFunc("/leaderboard", lb.SubmitEntry).Methods(http.MethodPost)

	return middleware.CORS(middleware.Logging(r))
}

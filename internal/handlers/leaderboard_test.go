package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyscore/leaderboard-api/internal/kv"
	"github.com/dailyscore/leaderboard-api/internal/leaderboard"
	"github.com/dailyscore/leaderboard-api/internal/middleware"
	"github.com/dailyscore/leaderboard-api/internal/models"
)

// downStore fails every operation as if the backing store were unreachable
type downStore struct{}

func (downStore) Put(ctx context.Context, key string, value any) error {
	return fmt.Errorf("%w: dial tcp: connection refused", kv.ErrUnavailable)
}

func (downStore) Get(ctx context.Context, key string, dst any) error {
	return fmt.Errorf("%w: dial tcp: connection refused", kv.ErrUnavailable)
}

func (downStore) ListKeys(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: dial tcp: connection refused", kv.ErrUnavailable)
}

func (downStore) Ping(ctx context.Context) error {
	return kv.ErrUnavailable
}

// getDownStore lists keys normally but cannot fetch them
type getDownStore struct {
	*kv.MemoryStore
}

func (getDownStore) Get(ctx context.Context, key string, dst any) error {
	return fmt.Errorf("%w: i/o timeout", kv.ErrUnavailable)
}

func newTestRouter(store kv.Store) http.Handler {
	reg := prometheus.NewRegistry()
	return NewRouter(
		NewLeaderboardHandler(leaderboard.NewService(store)),
		NewHealthHandler(store),
		middleware.NewMetrics(reg),
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp models.MessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Message
}

func TestSubmitAndListScenario(t *testing.T) {
	router := newTestRouter(kv.NewMemoryStore())

	rr := doRequest(t, router, http.MethodPost, "/leaderboard", `{"name":"Ann","score":50,"time":12.3}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Leaderboard entry added successfully", decodeMessage(t, rr))

	rr = doRequest(t, router, http.MethodPost, "/leaderboard", `{"name":"Bo","score":80,"time":9.1}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/leaderboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)

	assert.Equal(t, "Bo", entries[0]["name"])
	assert.Equal(t, float64(80), entries[0]["score"])
	assert.Equal(t, 9.1, entries[0]["time"])
	assert.Equal(t, leaderboard.CurrentDate(), entries[0]["date"])
	assert.Equal(t, "Ann", entries[1]["name"])

	// Only the four public fields are exposed
	assert.Len(t, entries[0], 4)
}

func TestListEmptyReturnsArray(t *testing.T) {
	router := newTestRouter(kv.NewMemoryStore())

	rr := doRequest(t, router, http.MethodGet, "/leaderboard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"score":50,"time":12.3}`},
		{"empty name", `{"name":"","score":50,"time":12.3}`},
		{"missing score", `{"name":"Ann","time":12.3}`},
		{"missing time", `{"name":"Ann","score":50}`},
		{"null time", `{"name":"Ann","score":50,"time":null}`},
		{"empty object", `{}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemoryStore()
			router := newTestRouter(store)

			rr := doRequest(t, router, http.MethodPost, "/leaderboard", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Missing required fields", decodeMessage(t, rr))
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `name=Ann`},
		{"score as string", `{"name":"Ann","score":"fifty","time":1}`},
		{"truncated", `{"name":"Ann"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := kv.NewMemoryStore()

			rr := doRequest(t, newTestRouter(store), http.MethodPost, "/leaderboard", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "Invalid request body", decodeMessage(t, rr))
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestSubmitZeroScore(t *testing.T) {
	router := newTestRouter(kv.NewMemoryStore())

	rr := doRequest(t, router, http.MethodPost, "/leaderboard", `{"name":"Zed","score":0,"time":"00:42"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/leaderboard", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "00:42", entries[0]["time"])
}

func TestStorageFailures(t *testing.T) {
	router := newTestRouter(downStore{})

	rr := doRequest(t, router, http.MethodPost, "/leaderboard", `{"name":"Ann","score":50,"time":12.3}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to add leaderboard entry", decodeMessage(t, rr))

	rr = doRequest(t, router, http.MethodGet, "/leaderboard", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to retrieve leaderboard entries", decodeMessage(t, rr))
}

func TestListFailsWhenEntryFetchFails(t *testing.T) {
	mem := kv.NewMemoryStore()
	rr := doRequest(t, newTestRouter(mem), http.MethodPost, "/leaderboard", `{"name":"Ann","score":50,"time":12.3}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, newTestRouter(getDownStore{mem}), http.MethodGet, "/leaderboard", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to retrieve leaderboard entries", decodeMessage(t, rr))
}

func TestSubmitBodyTooLarge(t *testing.T) {
	store := kv.NewMemoryStore()
	padding := strings.Repeat("a", maxBodyBytes)
	body := `{"name":"` + padding + `","score":50,"time":1}`

	rr := doRequest(t, newTestRouter(store), http.MethodPost, "/leaderboard", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "Request body too large", decodeMessage(t, rr))
	assert.Equal(t, 0, store.Len())
}

func TestValidationBeatsStorageFailure(t *testing.T) {
	rr := doRequest(t, newTestRouter(downStore{}), http.MethodPost, "/leaderboard", `{"name":"Ann"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

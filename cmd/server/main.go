package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dailyscore/leaderboard-api/internal/database"
	"github.com/dailyscore/leaderboard-api/internal/handlers"
	"github.com/dailyscore/leaderboard-api/internal/kv"
	"github.com/dailyscore/leaderboard-api/internal/leaderboard"
	"github.com/dailyscore/leaderboard-api/internal/middleware"
	"github.com/dailyscore/leaderboard-api/internal/mongodb"
	redisClient "github.com/dailyscore/leaderboard-api/internal/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[API] %v", err)
	}
}

// run serves until a signal arrives or the listener fails. Deferred cleanup
// always runs before main exits.
func run() error {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("[API] No .env file found")
	}

	// Load configuration from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "redis"
	}

	// Unused by any route; checked so a missing key is visible in the logs
	if os.Getenv("WORDNIK_API_KEY") == "" {
		log.Println("[API] WORDNIK_API_KEY not set")
	}

	// Initialize store
	log.Printf("[API] Initializing %s store...", backend)
	store, closer, err := openStore(backend)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer closer.Close()

	log.Println("[API] Store connected successfully")

	// Initialize handlers
	service := leaderboard.NewService(store)
	leaderboardHandler := handlers.NewLeaderboardHandler(service)
	healthHandler := handlers.NewHealthHandler(store)
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	handler := handlers.NewRouter(leaderboardHandler, healthHandler, metrics, promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[API] Starting server on port %s...", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Println("[API] Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[API] Server forced to shutdown: %v", err)
	}

	log.Println("[API] Server exited")
	return nil
}

// closerFunc adapts a function to io.Closer
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openStore connects the configured backend and returns it with its closer
func openStore(backend string) (kv.Store, io.Closer, error) {
	switch backend {
	case "redis":
		cfg := redisClient.LoadConfigFromEnv()
		client, err := redisClient.NewClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return redisClient.NewEntryStore(client, cfg.KeyPrefix), client, nil

	case "postgres":
		db, err := database.NewConnection(database.LoadConfigFromEnv())
		if err != nil {
			return nil, nil, err
		}
		if err := db.InitSchema(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return database.NewEntryStore(db), db, nil

	case "mongodb":
		cfg := mongodb.LoadConfigFromEnv()
		client, err := mongodb.Connect(cfg)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Database).Collection(cfg.Collection)
		closer := closerFunc(func() error {
			return client.Disconnect(context.Background())
		})
		return mongodb.NewEntryStore(coll), closer, nil

	case "memory":
		log.Println("[API] Using in-memory store; entries are lost on restart")
		return kv.NewMemoryStore(), closerFunc(func() error { return nil }), nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q (want redis, postgres, mongodb or memory)", backend)
	}
}

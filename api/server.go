package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"forex-signal-monitor/cache"
	"forex-signal-monitor/database"
	"forex-signal-monitor/realtime"
	"forex-signal-monitor/stats"
)

// SignalReader is the query interface the façade consumes. Operations
// never error; they degrade to empty results when the store is down.
type SignalReader interface {
	GetAllSignals(ctx context.Context) []database.Signal
	GetActiveSignals(ctx context.Context) []database.Signal
	GetRecentResults(ctx context.Context) []database.Signal
	GetTodayStats(ctx context.Context) stats.Snapshot
}

// Server handles HTTP API requests
type Server struct {
	reader   SignalReader
	cache    *cache.Client
	broker   *realtime.Broker
	cacheTTL time.Duration
}

// NewServer creates a new API server instance. cache may be nil.
func NewServer(reader SignalReader, cacheClient *cache.Client, broker *realtime.Broker, cacheTTL time.Duration) *Server {
	return &Server{
		reader:   reader,
		cache:    cacheClient,
		broker:   broker,
		cacheTTL: cacheTTL,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, s.Handler())
}

// Handler builds the routing table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// The dashboard client has used both GET and POST for these over
	// its revisions; both are accepted, POST bodies are ignored.
	registerBoth(mux, "/api/signals/active", s.handleActiveSignals)
	registerBoth(mux, "/api/signals/recent", s.handleRecentResults)
	registerBoth(mux, "/api/signals/all", s.handleAllSignals)
	registerBoth(mux, "/api/signals/today-stats", s.handleTodayStats)
	registerBoth(mux, "/api/signals/pairs", s.handlePairRollup)

	mux.Handle("GET /api/events", s.broker) // SSE endpoint

	mux.HandleFunc("GET /health", s.handleHealth)

	// Serve Static Files (Public UI)
	fs := http.FileServer(http.Dir("./public"))
	mux.Handle("GET /", fs)

	// Add middleware
	return s.corsMiddleware(s.loggingMiddleware(mux))
}

func registerBoth(mux *http.ServeMux, path string, h http.HandlerFunc) {
	mux.HandleFunc("GET "+path, h)
	mux.HandleFunc("POST "+path, h)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

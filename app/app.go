package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forex-signal-monitor/api"
	"forex-signal-monitor/cache"
	"forex-signal-monitor/config"
	"forex-signal-monitor/database"
	"forex-signal-monitor/database/signals"
	"forex-signal-monitor/realtime"
)

// App represents the main application
type App struct {
	config *config.Config
	store  *database.Store
	redis  *cache.Client
	reader *signals.Repository
	broker *realtime.Broker
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config: cfg,
	}
}

// Start starts the application and blocks until shutdown.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Open the signal store (read-only; degrades if missing)
	fmt.Println("🗄️  Opening signal store...")
	a.store = database.Open(a.config.SignalsDBPath)
	a.reader = signals.NewRepository(a.store)

	// 2. Redis Connection (optional)
	fmt.Println("🧠 Connecting to Redis...")
	a.redis = cache.New(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if a.redis == nil {
		fmt.Println("⚠️  Redis connection failed. Caching disabled.")
	}

	// 3. Realtime broker for dashboard refresh events
	a.broker = realtime.NewBroker()
	go a.broker.Run()

	// 4. Background today-stats refresher
	go a.runStatsPoller(ctx)

	// 5. Start API Server
	cacheTTL := time.Duration(a.config.CacheTTLSeconds) * time.Second
	apiServer := api.NewServer(a.reader, a.redis, a.broker, cacheTTL)
	go func() {
		if err := apiServer.Start(a.config.APIPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	// 6. Wait for interrupt and perform graceful shutdown
	return a.gracefulShutdown(cancel)
}

// runStatsPoller periodically recomputes the today snapshot and pushes
// it to SSE clients. Best-effort: a missed tick just means the
// dashboard refreshes on its next poll.
func (a *App) runStatsPoller(ctx context.Context) {
	interval := time.Duration(a.config.StatsPollSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := a.reader.GetTodayStats(ctx)
			a.broker.Broadcast("today_stats", snap)
		}
	}
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown(cancel context.CancelFunc) error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	// Cancel context to stop background goroutines
	cancel()

	shutdownComplete := make(chan struct{})
	go func() {
		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				log.Printf("⚠️  Error closing Redis: %v", err)
			}
		}
		if err := a.store.Close(); err != nil {
			log.Printf("⚠️  Error closing signal store: %v", err)
		}
		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown complete")
	case <-time.After(10 * time.Second):
		fmt.Println("⚠️  Shutdown timed out")
	}
	return nil
}

/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Warp Cost Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize the record store (SQLite, or in-memory for dev)
  3. Create API handler with the working-day calendar
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  Flags take precedence over environment variables:
  -port / PORT            HTTP server port (default: 8080)
  -db / DATABASE_PATH     SQLite database path (default: costdash.db)
                          Use ":memory:" for in-memory SQLite
  -demo                   Seed the demo portfolio on startup
  -log-level / LOG_LEVEL  debug, info, warn or error (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/costdash.db"

  # Run with demo data
  ./server -db=":memory:" -demo

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/cost-engine/api"
	"github.com/warp/cost-engine/finance"
	"github.com/warp/cost-engine/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE_PATH", "costdash.db"), "SQLite database path")
	demo := flag.Bool("demo", false, "seed the demo portfolio on startup")
	logLevel := flag.String("log-level", envStr("LOG_LEVEL", "info"), "debug, info, warn or error")
	flag.Parse()

	log := newLogger(*logLevel)
	slog.SetDefault(log)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Error("failed to initialize database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	handler := api.NewHandler(store, finance.EnglandAndWales(), log)

	if *demo {
		counts, err := api.LoadDemoPortfolio(context.Background(), store)
		if err != nil {
			log.Error("failed to seed demo portfolio", "error", err)
			os.Exit(1)
		}
		log.Info("demo portfolio seeded",
			"people", counts.People,
			"products", counts.Products,
			"tasks", counts.Tasks)
	}

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", *port), "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave management server. Handles
  configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse flags
  2. Initialize SQLite store
  3. Seed preset policies on first run
  4. Wire domain services and HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  Environment variables (flags override):
    PORT           HTTP server port (default: 8080)
    DB_PATH        SQLite database path (default: leave.db)
                   Use ":memory:" for an in-memory database
    LOG_LEVEL      trace|debug|info|warn|error (default: info)
    WORKWEEK_DAYS  5 or 6 (default: stored setting, else 5)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/leave.db"

  # Run with in-memory database
  ./server -db=":memory:"

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
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/mmind-zeno/LieTimeOffBundle/api"
	"github.com/mmind-zeno/LieTimeOffBundle/calendar"
	"github.com/mmind-zeno/LieTimeOffBundle/factory"
	"github.com/mmind-zeno/LieTimeOffBundle/leave"
	"github.com/mmind-zeno/LieTimeOffBundle/settings"
	"github.com/mmind-zeno/LieTimeOffBundle/store/sqlite"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envString("DB_PATH", "leave.db"), "SQLite database path")
	logLevel := flag.String("log-level", envString("LOG_LEVEL", "info"), "log level")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()

	created, err := factory.Seed(ctx, store)
	if err != nil {
		log.WithError(err).Fatal("failed to seed policies")
	}
	if created > 0 {
		log.WithField("policies", created).Info("seeded preset policies")
	}

	systemSettings := settings.NewService(store)

	workweek := calendar.WorkweekFiveDays
	if raw := os.Getenv("WORKWEEK_DAYS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			workweek = n
		}
	} else if n, err := systemSettings.GetInt(ctx, settings.KeyWorkweekDays, int64(workweek)); err == nil {
		workweek = int(n)
	}
	if workweek != calendar.WorkweekSixDays {
		workweek = calendar.WorkweekFiveDays
	}

	defaults := leave.StatutoryDefaults()
	if v, err := systemSettings.GetFloat(ctx, settings.KeyDefaultAnnualDays, 0); err == nil && v > 0 {
		defaults.AnnualDays = decimal.NewFromFloat(v)
	}
	if v, err := systemSettings.GetFloat(ctx, settings.KeyMaxCarryoverDays, 0); err == nil && v > 0 {
		defaults.MaxCarryover = decimal.NewFromFloat(v)
	}

	cal := calendar.New()
	resolver := &leave.PolicyResolver{Policies: store, Settings: store}
	aggregator := &leave.BalanceAggregator{
		Resolver:    resolver,
		Entitlement: &leave.EntitlementCalculator{Hours: store},
		Carryover:   &leave.CarryoverResolver{Balances: store},
		Requests:    store,
		Users:       store,
		Defaults:    defaults,
	}

	handler := &api.Handler{
		Calendar: cal,
		Lifecycle: &leave.Lifecycle{
			Requests: store,
			Counter:  calendar.NewCounter(cal),
			Workweek: workweek,
		},
		Balances: aggregator,
		Snapshots: &leave.SnapshotService{
			Aggregator: aggregator,
			Balances:   store,
			Users:      store,
		},
		Settings:     systemSettings,
		Policies:     store,
		UserSettings: store,
		Requests:     store,
		BalanceStore: store,
		Users:        store,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":     *port,
			"db":       *dbPath,
			"workweek": workweek,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

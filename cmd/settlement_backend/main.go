package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/services"
	"github.com/SscSPs/checkout_settlement/internal/events"
	"github.com/SscSPs/checkout_settlement/internal/gateway"
	"github.com/SscSPs/checkout_settlement/internal/handlers"
	"github.com/SscSPs/checkout_settlement/internal/jobs"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/SscSPs/checkout_settlement/internal/platform/config"
	"github.com/SscSPs/checkout_settlement/internal/platform/locking"
	"github.com/SscSPs/checkout_settlement/internal/repositories/database/pgsql"
	"github.com/SscSPs/checkout_settlement/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	shutdownTimeout = 20 * time.Second
	jobTimeout      = 10 * time.Minute
)

// @title Checkout Settlement API
// @version 1.0
// @description Multi-tenant checkout, payment settlement and ledger backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis is optional: without it locks and rate limits are per process
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_URL not set. Using in-process locks and rate limits.")
	}

	var locker portssvc.Locker = locking.NewMemoryLocker()
	if rdb != nil {
		locker = locking.NewRedisLocker(rdb)
	}

	rateLimiter, err := newRateLimiter(cfg.RateLimit, rdb)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	subscribers := []events.Subscriber{
		events.TaxDocumentSubscriber{Issuer: events.LogTaxDocumentIssuer{}},
		events.NotificationSubscriber{Notifier: events.LogNotifier{}},
	}
	var pubsubPublisher *events.PubSubPublisher
	if cfg.PubSubProjectID != "" && cfg.PubSubTopic != "" {
		pubsubPublisher, err = events.NewPubSubPublisher(ctx, cfg.PubSubProjectID, cfg.PubSubTopic, cfg.PubSubCredentialsJSON)
		if err != nil {
			logger.Error("Failed to create Pub/Sub publisher", slog.String("error", err.Error()))
			os.Exit(1)
		}
		subscribers = append(subscribers, pubsubPublisher)
	}
	dispatcher := events.NewDispatcher(cfg.EventWorkers, cfg.EventQueueSize, subscribers...)

	serviceContainer := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), services.Dependencies{
		Gateway:   gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayTimeout),
		Locker:    locker,
		Publisher: dispatcher,
	})

	runner := jobs.NewRunner(serviceContainer.Reconciliation, serviceContainer.Expiry, jobTimeout)
	scheduler, err := jobs.NewScheduler(runner, jobs.Schedule{
		Reconciliation: cfg.ReconciliationCron,
		ExpirySweep:    cfg.ExpirySweepCron,
	})
	if err != nil {
		logger.Error("Failed to schedule jobs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	scheduler.Start()
	logger.Info("Scheduler started", slog.Int("jobs", scheduler.Entries()))

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		logger.Error("Server failed to run", slog.String("error", err.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Error("Scheduler did not stop in time", slog.String("error", err.Error()))
	}
	// drain events published by the last requests and jobs
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Error("Event dispatcher did not drain in time", slog.String("error", err.Error()))
	}
	if pubsubPublisher != nil {
		if err := pubsubPublisher.Close(); err != nil {
			logger.Error("Failed to close Pub/Sub publisher", slog.String("error", err.Error()))
		}
	}
	logger.Info("Server stopped")
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRateLimiter shares counters through Redis when a client is given.
func newRateLimiter(formatted string, rdb *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "ratelimit"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

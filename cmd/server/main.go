package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/accountsvc/internal/adapter/http"
	"github.com/iho/accountsvc/internal/adapter/http/handler"
	postgresRepo "github.com/iho/accountsvc/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/accountsvc/internal/adapter/repository/redis"
	"github.com/iho/accountsvc/internal/infrastructure/config"
	"github.com/iho/accountsvc/internal/infrastructure/metrics"
	"github.com/iho/accountsvc/internal/infrastructure/postgres"
	"github.com/iho/accountsvc/internal/infrastructure/redis"
	"github.com/iho/accountsvc/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Register application metrics
	m := metrics.New()
	go reportPoolSize(ctx, m, pool)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, cfg.DBLockTimeout)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	activityRepo := postgresRepo.NewActivityRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	retrier := postgresRepo.NewRetrier(m)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(
		txManager,
		accountRepo,
		activityRepo,
		retrier,
		cache,
		decimal.NewFromInt(cfg.MinOpeningBalance),
		cfg.StatementLimit,
		m,
	)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo, m)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(ledgerUC)
	transactionHandler := handler.NewTransactionHandler(ledgerUC)
	ledgerHandler := handler.NewLedgerHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		LedgerHandler:      ledgerHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// reportPoolSize samples the connection pool size into the gauge until ctx
// is cancelled.
func reportPoolSize(ctx context.Context, m *metrics.Metrics, pool *pgxpool.Pool) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DBConnections.Set(float64(pool.Stat().TotalConns()))
		}
	}
}

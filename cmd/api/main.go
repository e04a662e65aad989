package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/synqtra/synqtra-api/internal/common/clock"
	"github.com/synqtra/synqtra-api/internal/config"
	"github.com/synqtra/synqtra-api/internal/handlers"
	"github.com/synqtra/synqtra-api/internal/logic"
	"github.com/synqtra/synqtra-api/internal/repositories/wallet"
	"github.com/synqtra/synqtra-api/internal/worker"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres
	pgPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("failed to create postgres pool", "error", err)
	}
	defer pgPool.Close()
	if err := pgPool.Ping(ctx); err != nil {
		sugar.Fatalw("failed to ping postgres", "error", err)
	}
	sugar.Info("Connected to PostgreSQL")

	// ClickHouse
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("failed to parse clickhouse url", "error", err)
	}
	chConn, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("failed to connect to clickhouse", "error", err)
	}
	defer chConn.Close()
	if err := chConn.Ping(ctx); err != nil {
		sugar.Fatalw("failed to ping clickhouse", "error", err)
	}
	sugar.Info("Connected to ClickHouse")

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("failed to parse redis url", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	walletRepo, err := wallet.NewRedis(&wallet.Config{RedisClient: redisClient})
	if err != nil {
		sugar.Fatalw("failed to create wallet repository", "error", err)
	}
	sugar.Info("Connected to Redis")

	clk := clock.New()

	ledger, err := logic.NewLedger(&logic.LedgerConfig{
		Repository: walletRepo,
		Clock:      clk,
		Logger:     logger,
	})
	if err != nil {
		sugar.Fatalw("failed to create wallet ledger", "error", err)
	}

	checker, err := logic.NewPgProfileChecker(pgPool)
	if err != nil {
		sugar.Fatalw("failed to create profile checker", "error", err)
	}

	session, err := logic.NewSession(&logic.SessionConfig{
		Ledger:       ledger,
		Checker:      checker,
		Repository:   walletRepo,
		Clock:        clk,
		Logger:       logger,
		CheckTimeout: cfg.ProfileCheckTimeout,
	})
	if err != nil {
		sugar.Fatalw("failed to create session service", "error", err)
	}
	if err := session.Restore(ctx); err != nil {
		sugar.Warnw("failed to restore persisted session", "error", err)
	}

	leaderboard, err := logic.NewLeaderboard(&logic.LeaderboardConfig{
		Repository: walletRepo,
	})
	if err != nil {
		sugar.Fatalw("failed to create leaderboard service", "error", err)
	}

	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    chConn,
		Postgres:      pgPool,
		Redis:         redisClient,
		Logger:        logger,
	})
	// The pool outlives the signal context so events from requests still
	// draining through server.Shutdown are recorded; Stop owns its lifecycle.
	pool.Start(context.Background())

	h := handlers.New(handlers.Config{
		EventQueue:  pool,
		Postgres:    pgPool,
		ClickHouse:  chConn,
		Redis:       redisClient,
		Logger:      logger,
		Ledger:      ledger,
		Session:     session,
		Leaderboard: leaderboard,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/qr/verify", h.VerifyQR)

	r.Route("/session", func(r chi.Router) {
		r.Post("/connect", h.Connect)
		r.Post("/disconnect", h.Disconnect)
		r.Get("/", h.GetSession)
	})

	r.Route("/points", func(r chi.Router) {
		r.Get("/", h.GetPoints)
		r.Post("/add", h.AddPoints)
		r.Post("/reset", h.ResetPoints)
	})

	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.ListGames)
		r.Post("/{gameID}/complete", h.CompleteGame)
	})

	r.Route("/challenges", func(r chi.Router) {
		r.Get("/", h.ListChallenges)
		r.Post("/{challengeID}/complete", h.CompleteChallenge)
	})

	r.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", h.GetLeaderboardOverview)
		r.Get("/{tier}", h.GetLeaderboard)
	})

	r.Post("/system/install", h.InstallDatabase)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Starting synqtra API", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("server shutdown failed", "error", err)
	}

	pool.Stop()
	sugar.Info("Shutdown complete")
}

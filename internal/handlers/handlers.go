package handlers

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/synqtra/synqtra-api/internal/logic"
	"github.com/synqtra/synqtra-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// EventQueue defines the interface for the async interaction-event recorder
type EventQueue interface {
	Enqueue(event *models.InteractionEvent) bool
	QueueDepth() int
}

// Postgres is the subset of pgxpool.Pool the handlers use
type Postgres interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type Config struct {
	EventQueue EventQueue
	Postgres   Postgres
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	Ledger      logic.LedgerService
	Session     logic.SessionService
	Leaderboard logic.LeaderboardService
}

type Handler struct {
	queue       EventQueue
	pg          Postgres
	ch          driver.Conn
	redis       *redis.Client
	logger      *zap.SugaredLogger
	validator   *validator.Validate
	ledger      logic.LedgerService
	session     logic.SessionService
	leaderboard logic.LeaderboardService
}

func New(cfg Config) *Handler {
	return &Handler{
		queue:       cfg.EventQueue,
		pg:          cfg.Postgres,
		ch:          cfg.ClickHouse,
		redis:       cfg.Redis,
		logger:      cfg.Logger.Sugar(),
		validator:   validator.New(),
		ledger:      cfg.Ledger,
		session:     cfg.Session,
		leaderboard: cfg.Leaderboard,
	}
}

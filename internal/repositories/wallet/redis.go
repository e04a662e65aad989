package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/synqtra/synqtra-api/internal/models"
)

const (
	// Key prefixes for Redis
	walletKeyPrefix = "synqtra:wallet:"
	walletSetKey    = "synqtra:wallets"
	sessionKey      = "synqtra:auth"
)

// ErrWalletNotFound is returned when a wallet record does not exist
var ErrWalletNotFound = errors.New("wallet not found")

// ErrNoSession is returned when no auth session is persisted
var ErrNoSession = errors.New("no persisted session")

// Config holds configuration for the Redis wallet repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed wallet repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Save persists a wallet record and tracks its address in the wallet set.
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) error {
	if input == nil || input.Record == nil {
		return errors.New("input and record cannot be nil")
	}

	record := input.Record
	if record.Address == "" {
		return errors.New("wallet address cannot be empty")
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet record: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, walletKeyPrefix+record.Address, recordJSON, 0)
	pipe.SAdd(ctx, walletSetKey, record.Address)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save wallet record: %w", err)
	}

	return nil
}

// Get retrieves a wallet record by address.
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*models.WalletRecord, error) {
	if input == nil || input.Address == "" {
		return nil, errors.New("input and address cannot be empty")
	}

	recordJSON, err := r.client.Get(ctx, walletKeyPrefix+input.Address).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet record: %w", err)
	}

	var record models.WalletRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet record: %w", err)
	}

	return &record, nil
}

// List returns all known wallet records using a pipelined fetch.
func (r *redisRepository) List(ctx context.Context) ([]*models.WalletRecord, error) {
	addresses, err := r.client.SMembers(ctx, walletSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet addresses: %w", err)
	}

	if len(addresses) == 0 {
		return []*models.WalletRecord{}, nil
	}

	pipe := r.client.Pipeline()
	commands := make(map[string]*redis.StringCmd, len(addresses))
	for _, address := range addresses {
		commands[address] = pipe.Get(ctx, walletKeyPrefix+address)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to fetch wallet records: %w", err)
	}

	records := make([]*models.WalletRecord, 0, len(addresses))
	for address, cmd := range commands {
		recordJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Address in the set but record missing; skip rather than fail the view.
				continue
			}
			return nil, fmt.Errorf("failed to fetch wallet %s: %w", address, err)
		}

		var record models.WalletRecord
		if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal wallet %s: %w", address, err)
		}

		records = append(records, &record)
	}

	return records, nil
}

// GetSession retrieves the persisted auth session.
func (r *redisRepository) GetSession(ctx context.Context) (*models.SessionRecord, error) {
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var record models.SessionRecord
	if err := json.Unmarshal([]byte(sessionJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &record, nil
}

// SaveSession persists the auth session flag under its own namespaced key.
func (r *redisRepository) SaveSession(ctx context.Context, record *models.SessionRecord) error {
	if record == nil {
		if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	}

	sessionJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

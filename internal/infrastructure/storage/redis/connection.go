// internal/infrastructure/storage/redis/connection.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/infrastructure/storage"
)

// Store wraps the Redis client and implements the storage.KV contract
type Store struct {
	Redis *redis.Client
}

// NewConnection creates a new Redis connection
func NewConnection(cfg *config.Config) (*Store, error) {
	// Create Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,

		// Connection timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		// Pool timeouts
		PoolTimeout: 4 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connection established successfully")

	return &Store{Redis: rdb}, nil
}

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores a key-value pair. Receipts persist until deleted, so no
// expiration is set.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.Redis.Set(ctx, key, value, 0).Err()
}

// Delete deletes a key
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Redis.Del(ctx, key).Err()
}

// Ping checks the Redis connection health
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.Redis.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.Redis.Close()
}

// GetClient returns the underlying Redis client instance
func (s *Store) GetClient() *redis.Client {
	return s.Redis
}

// Package redis provides a Redis-backed statestore.Store for deployments
// where card state must be shared across processes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"

	"github.com/cardframe/cardframe-go/statestore"
)

// Config captures the Redis connection settings.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `env:"REDIS_ADDR,default=localhost:6379"`

	// Password is the optional Redis AUTH password.
	Password string `env:"REDIS_PASSWORD"`

	// DB selects the Redis logical database.
	DB int `env:"REDIS_DB,default=0"`

	// KeyPrefix is prepended to every stored key.
	KeyPrefix string `env:"REDIS_KEY_PREFIX,default=cardframe:"`
}

// Store is a Redis implementation of statestore.Store. Documents are stored
// as JSON strings under KeyPrefix + key, without expiry.
type Store struct {
	client *redis.Client
	prefix string
	owned  bool
}

// New connects to Redis with the given config and verifies the connection
// with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Store{client: client, prefix: cfg.KeyPrefix, owned: true}, nil
}

// NewFromEnv builds a Store from REDIS_* environment variables.
func NewFromEnv(ctx context.Context) (*Store, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode redis config: %w", err)
	}
	return New(ctx, cfg)
}

// NewFromClient wraps an existing client. The caller keeps ownership of the
// client; Close becomes a no-op.
func NewFromClient(client *redis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = "cardframe:"
	}
	return &Store{client: client, prefix: keyPrefix}
}

func (s *Store) Get(ctx context.Context, key string) (statestore.Document, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, &statestore.StoreError{Op: "get", Key: key, Err: err}
	}

	var doc statestore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &statestore.StoreError{Op: "get", Key: key, Err: err}
	}
	return doc, nil
}

func (s *Store) Set(ctx context.Context, key string, doc statestore.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &statestore.StoreError{Op: "set", Key: key, Err: err}
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, 0).Err(); err != nil {
		return &statestore.StoreError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return &statestore.StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// Compile-time interface check
var _ statestore.Store = (*Store)(nil)

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/3-lines-studio/easygen/internal/core"
)

// Config holds Redis connection and key layout settings.
type Config struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ErrEmptyAddress is returned when Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

const connectionTimeout = 5 * time.Second

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Storage keeps each artifact as a string value under prefix+path.
type Storage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStorage(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func Open(ctx context.Context, cfg Config) (*Storage, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewStorage(client, cfg), nil
}

func (s *Storage) Key(path string) string {
	return s.prefix + path
}

func (s *Storage) Save(ctx context.Context, path string, content []byte) error {
	if path == "" {
		return core.ErrEmptyPath
	}
	if err := s.client.Set(ctx, s.Key(path), content, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.Key(path), err)
	}
	return nil
}

// Delete removes the key; a missing key is not an error.
func (s *Storage) Delete(ctx context.Context, path string) error {
	if path == "" {
		return core.ErrEmptyPath
	}
	if err := s.client.Del(ctx, s.Key(path)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.Key(path), err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, path string) ([]byte, error) {
	return s.client.Get(ctx, s.Key(path)).Bytes()
}

func (s *Storage) Close() error {
	return s.client.Close()
}

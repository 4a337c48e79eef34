// Package redis implements repository.SnapshotRepository on a Redis server.
//
// Each snapshot is a plain string value under "<prefix><key>" with no TTL.
// This backend is meant for installations that keep planner state off-device.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/brightday/internal/apperror"
	"github.com/sakif/brightday/internal/repository"
)

// Config holds Redis connection settings.
type Config struct {
	Addr        string
	Password    string
	DB          int
	KeyPrefix   string
	DialTimeout time.Duration
}

// Store is a Redis-backed snapshot repository.
type Store struct {
	client *redis.Client
	prefix string
}

var _ repository.SnapshotRepository = (*Store)(nil)

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: pinging %s: %w", cfg.Addr, err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

// Load returns the snapshot stored under key.
// A missing key (redis.Nil) becomes apperror.NotFound.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.NotFound("snapshot", key)
		}
		return nil, fmt.Errorf("redis: loading snapshot %s: %w", key, err)
	}
	return data, nil
}

// Save overwrites the snapshot stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: saving snapshot %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

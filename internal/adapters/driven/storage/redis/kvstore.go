// Package redis provides a Redis-backed durable key-value store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.KeyValueStore = (*KVStore)(nil)

// DefaultTimeout bounds every Redis round trip.
const DefaultTimeout = 5 * time.Second

// KVStore stores values as plain Redis strings under an optional key prefix.
type KVStore struct {
	client  *goredis.Client
	prefix  string
	timeout time.Duration
}

// Option configures the store.
type Option func(*KVStore)

// WithPrefix namespaces every key.
func WithPrefix(prefix string) Option {
	return func(s *KVStore) {
		s.prefix = prefix
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *KVStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewKVStore connects to Redis and verifies the connection with PING.
func NewKVStore(ctx context.Context, addr, password string, db int, opts ...Option) (*KVStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	s := NewKVStoreFromClient(client, opts...)

	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return s, nil
}

// NewKVStoreFromClient wraps an existing client.
func NewKVStoreFromClient(client *goredis.Client, opts ...Option) *KVStore {
	s := &KVStore{
		client:  client,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key.
func (s *KVStore) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key without expiry.
func (s *KVStore) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *KVStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *KVStore) Close() error {
	return s.client.Close()
}

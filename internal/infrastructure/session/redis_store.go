package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/repository"
)

var _ repository.SessionStore = (*RedisStore)(nil)

const redisKeyPrefix = "autotrack:session:"

// RedisStore guarda la sesión en Redis bajo autotrack:session:<clave>, sin TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore conecta con redisURL (redis://host:port/db) y verifica con PING.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("session: REDIS_URL inválida: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient usa un cliente ya construido.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get implementa SessionStore.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session: redis get: %w", err)
	}
	return v, true, nil
}

// Set implementa SessionStore.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

// Remove implementa SessionStore. DEL de una clave ausente no es error.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

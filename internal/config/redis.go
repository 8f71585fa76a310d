package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// RedisStorage adapts a redis client to fiber.Storage so fiber middleware
// (the limiter) can keep its counters in redis.
type RedisStorage struct {
	db redis.UniversalClient
}

func NewRedisStorage(client redis.UniversalClient) *RedisStorage {
	return &RedisStorage{db: client}
}

func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.db.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.db.Set(context.Background(), key, val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Del(context.Background(), key).Err()
}

// Reset is a no-op: the limiter shares the application database and must not flush it.
func (s *RedisStorage) Reset() error {
	return nil
}

// Close leaves the shared client open; main owns its lifecycle.
func (s *RedisStorage) Close() error {
	return nil
}

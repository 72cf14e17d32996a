package kv

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"toystore/internal/domain"
)

type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *log.Logger
}

// NewRedis returns a session-scoped Store. Every read or write pushes the key's
// expiry ttl into the future, so documents disappear once a session goes idle.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisStore{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.GetEx(ctx, s.prefix+key, s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		s.logger.Printf("kv redis: get key=%s error=%v", key, err)
		return nil, err
	}
	return value, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		s.logger.Printf("kv redis: set key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (s *redisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		s.logger.Printf("kv redis: remove key=%s error=%v", key, err)
		return err
	}
	return nil
}

// ConnectRedis opens a client and verifies connectivity with a ping.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

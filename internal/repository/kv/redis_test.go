package kv

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"toystore/internal/domain"
)

func TestRedis_SetGetRemoveWithTTL(t *testing.T) {
	ctx := context.Background()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := ConnectRedis(ctx, addr, "", 0)
	if err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	defer client.Close()

	prefix := "test:" + uuid.NewString() + ":"
	s := NewRedis(client, prefix, time.Minute, nil)

	if _, err := s.Get(ctx, "toys_data"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "toys_data", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "toys_data")
	if err != nil || string(got) != `[]` {
		t.Fatalf("get: %q %v", got, err)
	}
	ttl, err := client.TTL(ctx, prefix+"toys_data").Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected sliding ttl within a minute, got %s", ttl)
	}
	if err := s.Remove(ctx, "toys_data"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "toys_data"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

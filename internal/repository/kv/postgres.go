package kv

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"toystore/internal/domain"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	scope  string
	logger *log.Logger
}

// NewPostgres returns a Store persisting documents in kv_documents under scope.
func NewPostgres(pool *pgxpool.Pool, scope string, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresStore{pool: pool, scope: scope, logger: logger}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT value
FROM kv_documents
WHERE scope = $1 AND key = $2
`
	var value []byte
	if err := s.pool.QueryRow(ctx, q, s.scope, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Printf("kv postgres: get scope=%s key=%s error=%v", s.scope, key, err)
		return nil, err
	}
	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_documents (scope, key, value)
VALUES ($1, $2, $3::jsonb)
ON CONFLICT (scope, key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = now()
`
	if _, err := s.pool.Exec(ctx, q, s.scope, key, string(value)); err != nil {
		s.logger.Printf("kv postgres: set scope=%s key=%s error=%v", s.scope, key, err)
		return err
	}
	return nil
}

func (s *postgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_documents WHERE scope = $1 AND key = $2`, s.scope, key); err != nil {
		s.logger.Printf("kv postgres: remove scope=%s key=%s error=%v", s.scope, key, err)
		return err
	}
	return nil
}

package catalog

import (
	"context"
	"errors"
	"io"
	"log"

	"toystore/internal/domain"
	"toystore/internal/repository/kv"
)

type documentRepo struct {
	store  kv.Store
	logger *log.Logger
}

// NewDocument returns a Repository storing toys_data in the session store.
func NewDocument(store kv.Store, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &documentRepo{store: store, logger: logger}
}

func toysKey(sessionID string) string {
	return "session:" + sessionID + ":toys_data"
}

func (r *documentRepo) Load(ctx context.Context, sessionID string) ([]domain.Toy, error) {
	var toys []domain.Toy
	if err := kv.LoadJSON(ctx, r.store, toysKey(sessionID), &toys); err != nil {
		if errors.Is(err, kv.ErrMalformed) {
			r.logger.Printf("catalog repo: load session=%s error=%v, treating as miss", sessionID, err)
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if toys == nil {
		return nil, domain.ErrNotFound
	}
	return toys, nil
}

func (r *documentRepo) Save(ctx context.Context, sessionID string, toys []domain.Toy) error {
	if err := kv.SaveJSON(ctx, r.store, toysKey(sessionID), toys); err != nil {
		r.logger.Printf("catalog repo: save session=%s error=%v", sessionID, err)
		return err
	}
	return nil
}

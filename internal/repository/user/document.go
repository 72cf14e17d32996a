package user

import (
	"context"
	"errors"
	"io"
	"log"

	"toystore/internal/domain"
	"toystore/internal/repository/kv"
)

const usersKey = "users"

type documentRepo struct {
	store  kv.Store
	logger *log.Logger
}

// NewDocument returns a Repository over the persistent key/value store.
func NewDocument(store kv.Store, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &documentRepo{store: store, logger: logger}
}

func currentKey(sessionID string) string {
	return "currentUser:" + sessionID
}

// List treats an absent or undecodable users document as no users.
func (r *documentRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := kv.LoadJSON(ctx, r.store, usersKey, &users)
	switch {
	case err == nil:
		return users, nil
	case errors.Is(err, domain.ErrNotFound):
		return []domain.User{}, nil
	case errors.Is(err, kv.ErrMalformed):
		r.logger.Printf("user repo: list error=%v, treating as empty", err)
		return []domain.User{}, nil
	default:
		return nil, err
	}
}

func (r *documentRepo) SaveAll(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	if err := kv.SaveJSON(ctx, r.store, usersKey, users); err != nil {
		r.logger.Printf("user repo: save count=%d error=%v", len(users), err)
		return err
	}
	r.logger.Printf("user repo: saved count=%d", len(users))
	return nil
}

func (r *documentRepo) Current(ctx context.Context, sessionID string) (*domain.SessionUser, error) {
	var u domain.SessionUser
	err := kv.LoadJSON(ctx, r.store, currentKey(sessionID), &u)
	if err != nil {
		if errors.Is(err, kv.ErrMalformed) {
			r.logger.Printf("user repo: current session=%s error=%v, treating as logged out", sessionID, err)
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if u.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *documentRepo) SetCurrent(ctx context.Context, sessionID string, u domain.SessionUser) error {
	return kv.SaveJSON(ctx, r.store, currentKey(sessionID), u)
}

func (r *documentRepo) ClearCurrent(ctx context.Context, sessionID string) error {
	return r.store.Remove(ctx, currentKey(sessionID))
}

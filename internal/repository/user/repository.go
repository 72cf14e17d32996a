package user

import (
	"context"

	"toystore/internal/domain"
)

// Repository persists the registered users document and the per-session
// current-user records.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)
	SaveAll(ctx context.Context, users []domain.User) error
	Current(ctx context.Context, sessionID string) (*domain.SessionUser, error)
	SetCurrent(ctx context.Context, sessionID string, u domain.SessionUser) error
	ClearCurrent(ctx context.Context, sessionID string) error
}

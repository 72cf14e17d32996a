package catalog

import (
	"context"

	"toystore/internal/domain"
)

// Repository is the session-scoped catalog cache. Load returns
// domain.ErrNotFound when the session has no usable cached catalog.
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]domain.Toy, error)
	Save(ctx context.Context, sessionID string, toys []domain.Toy) error
}

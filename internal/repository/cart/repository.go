package cart

import (
	"context"

	"toystore/internal/domain"
)

// Repository loads and overwrites a user's whole cart document.
type Repository interface {
	Load(ctx context.Context, userID int) ([]domain.CartItem, error)
	Save(ctx context.Context, userID int, items []domain.CartItem) error
}

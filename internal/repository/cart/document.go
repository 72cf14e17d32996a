package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"

	"toystore/internal/domain"
	"toystore/internal/repository/kv"
)

type documentRepo struct {
	store  kv.Store
	logger *log.Logger
}

// NewDocument returns a Repository keeping one cart_<userId> document per user.
func NewDocument(store kv.Store, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &documentRepo{store: store, logger: logger}
}

func cartKey(userID int) string {
	return "cart_" + strconv.Itoa(userID)
}

// Load returns an empty cart when the document is missing or unreadable.
func (r *documentRepo) Load(ctx context.Context, userID int) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := kv.LoadJSON(ctx, r.store, cartKey(userID), &items)
	switch {
	case err == nil:
		if items == nil {
			items = []domain.CartItem{}
		}
		return items, nil
	case errors.Is(err, domain.ErrNotFound):
		return []domain.CartItem{}, nil
	case errors.Is(err, kv.ErrMalformed):
		r.logger.Printf("cart repo: load user_id=%d error=%v, treating as empty", userID, err)
		return []domain.CartItem{}, nil
	default:
		r.logger.Printf("cart repo: load user_id=%d error=%v", userID, err)
		return nil, err
	}
}

func (r *documentRepo) Save(ctx context.Context, userID int, items []domain.CartItem) error {
	if items == nil {
		items = []domain.CartItem{}
	}
	if err := kv.SaveJSON(ctx, r.store, cartKey(userID), items); err != nil {
		r.logger.Printf("cart repo: save user_id=%d error=%v", userID, err)
		return err
	}
	r.logger.Printf("cart repo: saved user_id=%d items=%d", userID, len(items))
	return nil
}

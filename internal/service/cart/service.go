// Package cart implements the per-user cart and its order-status lifecycle.
package cart

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"toystore/internal/domain"
	cartrepo "toystore/internal/repository/cart"
)

// RatingRecorder receives the catalog-side copy of a submitted review.
type RatingRecorder interface {
	RecordRating(ctx context.Context, sessionID string, r domain.Rating) error
}

type Service struct {
	repo    cartrepo.Repository
	ratings RatingRecorder
	logger  *log.Logger
	now     func() time.Time

	// serializes read-modify-write of cart documents
	mu sync.Mutex
}

func New(repo cartrepo.Repository, ratings RatingRecorder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, ratings: ratings, logger: logger, now: time.Now}
}

// ReviewInput is a review submitted for a delivered item.
type ReviewInput struct {
	Rating         int    `json:"rating"`
	RespondentType string `json:"respondentType"`
	Comment        string `json:"comment"`
}

func findItem(items []domain.CartItem, toyID int) int {
	for i := range items {
		if items[i].Toy.ToyID == toyID {
			return i
		}
	}
	return -1
}

// Items returns the current user's cart.
func (s *Service) Items(ctx context.Context, sess domain.Session) ([]domain.CartItem, error) {
	if !sess.LoggedIn() {
		return nil, domain.ErrNotLoggedIn
	}
	return s.repo.Load(ctx, sess.UserID)
}

// Summary returns the cart with its totals.
func (s *Service) Summary(ctx context.Context, sess domain.Session) (Summary, error) {
	items, err := s.Items(ctx, sess)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

// Contains reports whether the toy is already in the user's cart. Anonymous
// sessions never contain anything.
func (s *Service) Contains(ctx context.Context, sess domain.Session, toyID int) (bool, error) {
	if !sess.LoggedIn() {
		return false, nil
	}
	items, err := s.repo.Load(ctx, sess.UserID)
	if err != nil {
		return false, err
	}
	return findItem(items, toyID) >= 0, nil
}

// mutate loads the user's cart, applies fn and saves the result when fn
// reports a change.
func (s *Service) mutate(ctx context.Context, sess domain.Session, fn func([]domain.CartItem) ([]domain.CartItem, bool, error)) ([]domain.CartItem, error) {
	if !sess.LoggedIn() {
		return nil, domain.ErrNotLoggedIn
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.Load(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	items, changed, err := fn(items)
	if err != nil {
		return nil, err
	}
	if !changed {
		return items, nil
	}
	if err := s.repo.Save(ctx, sess.UserID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem increments the toy's quantity, or inserts it reserved with quantity 1.
func (s *Service) AddItem(ctx context.Context, sess domain.Session, toy domain.Toy) ([]domain.CartItem, error) {
	return s.mutate(ctx, sess, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		if i := findItem(items, toy.ToyID); i >= 0 {
			items[i].Quantity++
			s.logger.Printf("cart: add user=%d toy=%d quantity=%d", sess.UserID, toy.ToyID, items[i].Quantity)
			return items, true, nil
		}
		items = append(items, domain.CartItem{
			Toy:      toy,
			Quantity: 1,
			Status:   domain.StatusReserved,
			AddedAt:  s.now().UTC(),
		})
		s.logger.Printf("cart: add user=%d toy=%d quantity=1", sess.UserID, toy.ToyID)
		return items, true, nil
	})
}

// ChangeQuantity adds delta to the item's quantity. A result below 1 leaves
// the cart untouched.
func (s *Service) ChangeQuantity(ctx context.Context, sess domain.Session, toyID, delta int) ([]domain.CartItem, error) {
	return s.mutate(ctx, sess, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		i := findItem(items, toyID)
		if i < 0 {
			return nil, false, domain.ErrNotFound
		}
		next := items[i].Quantity + delta
		if next <= 0 || delta == 0 {
			return items, false, nil
		}
		items[i].Quantity = next
		return items, true, nil
	})
}

// RemoveItem drops the toy from the cart. Removing an absent toy is a no-op.
func (s *Service) RemoveItem(ctx context.Context, sess domain.Session, toyID int) ([]domain.CartItem, error) {
	return s.mutate(ctx, sess, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		i := findItem(items, toyID)
		if i < 0 {
			return items, false, nil
		}
		s.logger.Printf("cart: remove user=%d toy=%d", sess.UserID, toyID)
		return append(items[:i], items[i+1:]...), true, nil
	})
}

// SetStatus moves an item to status. Any transition is allowed; leaving
// delivered discards the item's review.
func (s *Service) SetStatus(ctx context.Context, sess domain.Session, toyID int, status domain.OrderStatus) ([]domain.CartItem, error) {
	if !status.Valid() {
		return nil, domain.Invalid("status", fmt.Sprintf("unknown status %q", status))
	}
	return s.mutate(ctx, sess, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		i := findItem(items, toyID)
		if i < 0 {
			return nil, false, domain.ErrNotFound
		}
		items[i].Status = status
		if status != domain.StatusDelivered {
			items[i].UserReview = nil
		}
		s.logger.Printf("cart: status user=%d toy=%d status=%s", sess.UserID, toyID, status)
		return items, true, nil
	})
}

func validateReview(in ReviewInput) (ReviewInput, error) {
	in.RespondentType = strings.TrimSpace(in.RespondentType)
	if in.Rating < 1 || in.Rating > 5 {
		return in, domain.Invalid("rating", "rating must be between 1 and 5")
	}
	switch in.RespondentType {
	case "", domain.RespondentChild, domain.RespondentParent:
	default:
		return in, domain.Invalid("respondentType", fmt.Sprintf("unknown respondent type %q", in.RespondentType))
	}
	return in, nil
}

// SubmitReview attaches a review to a delivered item, replacing any earlier
// one, and copies it onto the session's cached catalog. A zero rating means
// no review was given and changes nothing.
func (s *Service) SubmitReview(ctx context.Context, sess domain.Session, toyID int, in ReviewInput) ([]domain.CartItem, error) {
	if in.Rating == 0 {
		return s.Items(ctx, sess)
	}
	in, err := validateReview(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	items, err := s.mutate(ctx, sess, func(items []domain.CartItem) ([]domain.CartItem, bool, error) {
		i := findItem(items, toyID)
		if i < 0 {
			return nil, false, domain.ErrNotFound
		}
		if items[i].Status != domain.StatusDelivered {
			return nil, false, domain.Invalid("status", "only delivered items can be reviewed")
		}
		items[i].UserReview = &domain.UserReview{
			Rating:         in.Rating,
			RespondentType: in.RespondentType,
			Comment:        in.Comment,
			CreatedAt:      now,
		}
		return items, true, nil
	})
	if err != nil {
		return nil, err
	}

	if s.ratings != nil {
		r := domain.Rating{
			RatingID:       now.UnixMilli(),
			Rating:         in.Rating,
			RespondentType: in.RespondentType,
			Comment:        in.Comment,
			CreatedAt:      now.Format(time.RFC3339Nano),
			UserID:         sess.UserID,
			ToyID:          toyID,
		}
		if err := s.ratings.RecordRating(ctx, sess.ID, r); err != nil {
			s.logger.Printf("cart: record rating user=%d toy=%d error=%v", sess.UserID, toyID, err)
		}
	}
	s.logger.Printf("cart: review user=%d toy=%d rating=%d", sess.UserID, toyID, in.Rating)
	return items, nil
}

package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"toystore/internal/domain"
	cartrepo "toystore/internal/repository/cart"
	"toystore/internal/repository/kv"
)

type stubRecorder struct {
	calls   []domain.Rating
	session string
	err     error
}

func (s *stubRecorder) RecordRating(_ context.Context, sessionID string, r domain.Rating) error {
	s.session = sessionID
	s.calls = append(s.calls, r)
	return s.err
}

type failingRepo struct {
	items   []domain.CartItem
	saveErr error
	saves   int
}

func (r *failingRepo) Load(_ context.Context, _ int) ([]domain.CartItem, error) {
	out := make([]domain.CartItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *failingRepo) Save(_ context.Context, _ int, items []domain.CartItem) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.items = items
	return nil
}

var fixedNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func newService(rec RatingRecorder) (*Service, cartrepo.Repository) {
	repo := cartrepo.NewDocument(kv.NewMemory(), nil)
	svc := New(repo, rec, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

var sess = domain.Session{ID: "s1", UserID: 1}

func toy(id int, price float64) domain.Toy {
	return domain.Toy{ToyID: id, Name: "toy", Price: price}
}

func TestAddItem_IncrementsExisting(t *testing.T) {
	svc, repo := newService(nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, sess, toy(1, 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := svc.AddItem(ctx, sess, toy(1, 10))
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected one item with quantity 2, got %+v", items)
	}
	if items[0].Status != domain.StatusReserved || !items[0].AddedAt.Equal(fixedNow) {
		t.Fatalf("unexpected item %+v", items[0])
	}

	stored, _ := repo.Load(ctx, 1)
	if len(stored) != 1 || stored[0].Quantity != 2 {
		t.Fatalf("expected persisted quantity 2, got %+v", stored)
	}
	if other, _ := repo.Load(ctx, 2); len(other) != 0 {
		t.Fatalf("expected carts partitioned per user, got %+v", other)
	}
}

func TestMutationsRequireLogin(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	anon := domain.Session{ID: "s1"}
	if _, err := svc.AddItem(ctx, anon, toy(1, 10)); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := svc.Items(ctx, anon); !errors.Is(err, domain.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if in, err := svc.Contains(ctx, anon, 1); in || err != nil {
		t.Fatalf("expected anonymous contains false, got %v %v", in, err)
	}
}

func TestChangeQuantity(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	if _, err := svc.AddItem(ctx, sess, toy(1, 10)); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := svc.ChangeQuantity(ctx, sess, 1, 2)
	if err != nil || items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v err=%v", items, err)
	}
	items, err = svc.ChangeQuantity(ctx, sess, 1, -3)
	if err != nil || items[0].Quantity != 3 {
		t.Fatalf("expected quantity kept at 3, got %+v err=%v", items, err)
	}
	items, err = svc.ChangeQuantity(ctx, sess, 1, -2)
	if err != nil || items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v err=%v", items, err)
	}
	items, err = svc.ChangeQuantity(ctx, sess, 1, -1)
	if err != nil || len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected decrement to zero ignored, got %+v err=%v", items, err)
	}
	if _, err := svc.ChangeQuantity(ctx, sess, 42, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNoOpDoesNotWrite(t *testing.T) {
	repo := &failingRepo{items: []domain.CartItem{{Toy: toy(1, 10), Quantity: 1, Status: domain.StatusReserved}}}
	svc := New(repo, nil, nil)
	if _, err := svc.ChangeQuantity(context.Background(), sess, 1, -1); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.RemoveItem(context.Background(), sess, 99); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if repo.saves != 0 {
		t.Fatalf("expected no writes, got %d", repo.saves)
	}
}

func TestSaveErrorIsReturned(t *testing.T) {
	repo := &failingRepo{saveErr: errors.New("disk full")}
	svc := New(repo, nil, nil)
	if _, err := svc.AddItem(context.Background(), sess, toy(1, 10)); err == nil {
		t.Fatalf("expected save error")
	}
}

func TestRemoveItem(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, sess, toy(1, 10))
	_, _ = svc.AddItem(ctx, sess, toy(2, 20))

	items, err := svc.RemoveItem(ctx, sess, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(items) != 1 || items[0].Toy.ToyID != 2 {
		t.Fatalf("expected only toy 2 left, got %+v", items)
	}
	if in, _ := svc.Contains(ctx, sess, 1); in {
		t.Fatalf("expected toy 1 gone")
	}
	if in, _ := svc.Contains(ctx, sess, 2); !in {
		t.Fatalf("expected toy 2 present")
	}
}

func TestSetStatus_LeavingDeliveredClearsReview(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, sess, toy(1, 10))

	if _, err := svc.SetStatus(ctx, sess, 1, domain.StatusDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	items, err := svc.SubmitReview(ctx, sess, 1, ReviewInput{Rating: 4, RespondentType: "child", Comment: "super"})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if items[0].UserReview == nil || items[0].UserReview.Rating != 4 {
		t.Fatalf("expected review attached, got %+v", items[0])
	}

	items, err = svc.SetStatus(ctx, sess, 1, domain.StatusCancelled)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if items[0].UserReview != nil {
		t.Fatalf("expected review cleared, got %+v", items[0].UserReview)
	}

	// any-to-any transitions are allowed
	if _, err := svc.SetStatus(ctx, sess, 1, domain.StatusReserved); err != nil {
		t.Fatalf("back to reserved: %v", err)
	}
	if _, err := svc.SetStatus(ctx, sess, 1, "shipped"); err == nil {
		t.Fatalf("expected unknown status rejected")
	}
	if _, err := svc.SetStatus(ctx, sess, 9, domain.StatusDelivered); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitReview(t *testing.T) {
	rec := &stubRecorder{}
	svc, _ := newService(rec)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, sess, toy(1, 10))

	var verr *domain.ValidationError
	if _, err := svc.SubmitReview(ctx, sess, 1, ReviewInput{Rating: 5}); !errors.As(err, &verr) {
		t.Fatalf("expected reserved item review rejected, got %v", err)
	}

	_, _ = svc.SetStatus(ctx, sess, 1, domain.StatusDelivered)

	items, err := svc.SubmitReview(ctx, sess, 1, ReviewInput{Rating: 0, Comment: "ignored"})
	if err != nil || items[0].UserReview != nil {
		t.Fatalf("expected zero rating to be a no-op, got %+v err=%v", items, err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected no rating recorded for zero rating")
	}

	for _, bad := range []ReviewInput{{Rating: 6}, {Rating: -1}, {Rating: 3, RespondentType: "grandparent"}} {
		if _, err := svc.SubmitReview(ctx, sess, 1, bad); !errors.As(err, &verr) {
			t.Fatalf("expected %+v rejected, got %v", bad, err)
		}
	}

	if _, err := svc.SubmitReview(ctx, sess, 1, ReviewInput{Rating: 3, RespondentType: "parent", Comment: "ok"}); err != nil {
		t.Fatalf("review: %v", err)
	}
	items, err = svc.SubmitReview(ctx, sess, 1, ReviewInput{Rating: 5, RespondentType: "parent", Comment: "better"})
	if err != nil {
		t.Fatalf("review again: %v", err)
	}
	if r := items[0].UserReview; r == nil || r.Rating != 5 || r.Comment != "better" {
		t.Fatalf("expected overwritten review, got %+v", r)
	}

	if len(rec.calls) != 2 || rec.session != "s1" {
		t.Fatalf("expected 2 recorded ratings for s1, got %+v", rec)
	}
	last := rec.calls[1]
	if last.UserID != 1 || last.ToyID != 1 || last.Rating != 5 || last.RespondentType != "parent" || last.RatingID != fixedNow.UnixMilli() {
		t.Fatalf("unexpected rating %+v", last)
	}
}

func TestSubmitReview_RecorderErrorIsNotFatal(t *testing.T) {
	svc, _ := newService(&stubRecorder{err: errors.New("redis down")})
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, sess, toy(1, 10))
	_, _ = svc.SetStatus(ctx, sess, 1, domain.StatusDelivered)
	if _, err := svc.SubmitReview(ctx, sess, 1, ReviewInput{Rating: 2}); err != nil {
		t.Fatalf("expected review saved despite recorder error, got %v", err)
	}
}

func TestSummary_Totals(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, sess, toy(1, 10.10))
	_, _ = svc.AddItem(ctx, sess, toy(1, 10.10))
	_, _ = svc.AddItem(ctx, sess, toy(2, 0.2))
	_, _ = svc.AddItem(ctx, sess, toy(3, 99))
	_, _ = svc.SetStatus(ctx, sess, 3, domain.StatusDelivered)

	sum, err := svc.Summary(ctx, sess)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !sum.TotalPrice.Equal(decimal.RequireFromString("20.4")) {
		t.Fatalf("expected reserved total 20.4, got %s", sum.TotalPrice)
	}
	if !sum.TotalsByStatus[domain.StatusDelivered].Equal(decimal.NewFromInt(99)) {
		t.Fatalf("expected delivered total 99, got %s", sum.TotalsByStatus[domain.StatusDelivered])
	}
	if !sum.TotalsByStatus[domain.StatusCancelled].IsZero() {
		t.Fatalf("expected cancelled total 0")
	}
	if !sum.HasActiveItems {
		t.Fatalf("expected active items")
	}
	if got := ItemsByStatus(sum.Items, domain.StatusReserved); len(got) != 2 {
		t.Fatalf("expected 2 reserved items, got %d", len(got))
	}
}

func TestHasActiveItems(t *testing.T) {
	if HasActiveItems(nil) {
		t.Fatalf("expected empty cart inactive")
	}
	cancelled := []domain.CartItem{{Status: domain.StatusCancelled}, {Status: domain.StatusCancelled}}
	if HasActiveItems(cancelled) {
		t.Fatalf("expected all-cancelled cart inactive")
	}
	if !HasActiveItems(append(cancelled, domain.CartItem{Status: domain.StatusDelivered})) {
		t.Fatalf("expected delivered item to count as active")
	}
	if sum := Summarize(nil); sum.Items == nil || !sum.TotalPrice.IsZero() {
		t.Fatalf("unexpected empty summary %+v", sum)
	}
}

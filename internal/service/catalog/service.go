// Package catalog serves the product listing, search and detail views over a
// per-session cache of the remote toy catalog.
package catalog

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"toystore/internal/domain"
	catalogrepo "toystore/internal/repository/catalog"
	"toystore/internal/search"
)

// Remote is the read-only upstream catalog.
type Remote interface {
	ListToys(ctx context.Context) ([]domain.Toy, error)
	GetByPermalink(ctx context.Context, permalink string) (*domain.Toy, error)
	ListTypes(ctx context.Context) ([]domain.ToyType, error)
}

// TypeView is a toy type decorated with a representative image.
type TypeView struct {
	domain.ToyType
	ImageURL string `json:"imageUrl,omitempty"`
}

type Service struct {
	cache        catalogrepo.Repository
	remote       Remote
	imageBaseURL string
	logger       *log.Logger

	// guards read-modify-write of a session's cached catalog
	mu sync.Mutex
}

func New(cache catalogrepo.Repository, remote Remote, imageBaseURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		cache:        cache,
		remote:       remote,
		imageBaseURL: imageBaseURL,
		logger:       logger,
	}
}

// Catalog returns the session's cached catalog, fetching and caching it on a
// miss. Upstream failures yield an empty catalog.
func (s *Service) Catalog(ctx context.Context, sessionID string) []domain.Toy {
	toys, err := s.cache.Load(ctx, sessionID)
	if err == nil {
		return toys
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Printf("catalog: cache load session=%s error=%v", sessionID, err)
	}

	toys, err = s.remote.ListToys(ctx)
	if err != nil {
		s.logger.Printf("catalog: fetch error=%v", err)
		return []domain.Toy{}
	}
	if toys == nil {
		toys = []domain.Toy{}
	}
	if err := s.cache.Save(ctx, sessionID, toys); err != nil {
		s.logger.Printf("catalog: cache save session=%s error=%v", sessionID, err)
	}
	return toys
}

// Search filters the session's catalog.
func (s *Service) Search(ctx context.Context, sessionID string, c search.Criteria) []domain.Toy {
	return search.Filter(s.Catalog(ctx, sessionID), c)
}

// Detail resolves a toy by permalink, preferring the cached catalog.
func (s *Service) Detail(ctx context.Context, sessionID, permalink string) (*domain.Toy, error) {
	permalink = strings.TrimSpace(permalink)
	if permalink == "" {
		return nil, domain.ErrNotFound
	}
	toys, err := s.cache.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Printf("catalog: cache load session=%s error=%v", sessionID, err)
	}
	for i := range toys {
		if toys[i].Permalink == permalink {
			toy := toys[i]
			return &toy, nil
		}
	}

	toy, err := s.remote.GetByPermalink(ctx, permalink)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("catalog: detail permalink=%s error=%v", permalink, err)
		}
		return nil, err
	}
	return toy, nil
}

// AverageRating is the arithmetic mean of the toy's ratings, or 0.
func AverageRating(toy domain.Toy) float64 {
	if len(toy.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range toy.Ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(toy.Ratings))
}

// Types lists the toy categories, each with the image of the first cached toy
// of that type.
func (s *Service) Types(ctx context.Context, sessionID string) []TypeView {
	types, err := s.remote.ListTypes(ctx)
	if err != nil {
		s.logger.Printf("catalog: list types error=%v", err)
		return []TypeView{}
	}
	toys := s.Catalog(ctx, sessionID)
	out := make([]TypeView, 0, len(types))
	for _, t := range types {
		out = append(out, TypeView{ToyType: t, ImageURL: s.imageForType(toys, t.TypeID)})
	}
	return out
}

func (s *Service) imageForType(toys []domain.Toy, typeID int) string {
	for _, toy := range toys {
		if toy.Type.TypeID == typeID && toy.ImageURL != "" {
			return s.ImageURL(toy.ImageURL)
		}
	}
	return ""
}

// ImageURL resolves a catalog image path against the image host.
func (s *Service) ImageURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if s.imageBaseURL == "" {
		return path
	}
	return strings.TrimRight(s.imageBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// RecordRating upserts r on the matching toy of the session's cached catalog,
// replacing any earlier rating by the same user. Without a cache there is
// nothing to update.
func (s *Service) RecordRating(ctx context.Context, sessionID string, r domain.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	toys, err := s.cache.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	idx := -1
	for i := range toys {
		if toys[i].ToyID == r.ToyID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	ratings := toys[idx].Ratings
	replaced := false
	for i := range ratings {
		if ratings[i].UserID == r.UserID {
			ratings[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		ratings = append(ratings, r)
	}
	toys[idx].Ratings = ratings

	if err := s.cache.Save(ctx, sessionID, toys); err != nil {
		return err
	}
	s.logger.Printf("catalog: rating recorded toy=%d user=%d rating=%d", r.ToyID, r.UserID, r.Rating)
	return nil
}

package toyapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"toystore/internal/domain"
)

// Client reads the public toy catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// New builds a Client for baseURL (for example https://toy.pequla.com/api).
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListToys fetches the whole catalog.
func (c *Client) ListToys(ctx context.Context) ([]domain.Toy, error) {
	var toys []domain.Toy
	if err := c.get(ctx, "/toy", &toys); err != nil {
		return nil, err
	}
	c.logger.Printf("toy api: list toys count=%d", len(toys))
	return toys, nil
}

// GetByPermalink fetches one toy. An unknown permalink yields domain.ErrNotFound.
func (c *Client) GetByPermalink(ctx context.Context, permalink string) (*domain.Toy, error) {
	var toy domain.Toy
	if err := c.get(ctx, "/toy/permalink/"+url.PathEscape(permalink), &toy); err != nil {
		// the API answers some unknown permalinks with 200 and no body
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if toy.ToyID == 0 {
		return nil, domain.ErrNotFound
	}
	return &toy, nil
}

// ListTypes fetches the toy categories.
func (c *Client) ListTypes(ctx context.Context) ([]domain.ToyType, error) {
	var types []domain.ToyType
	if err := c.get(ctx, "/type", &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) get(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("toy api: get path=%s error=%v", path, err)
		return fmt.Errorf("toy api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("toy api: get path=%s status=%d", path, resp.StatusCode)
		return fmt.Errorf("toy api %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("toy api %s: decode: %w", path, err)
	}
	return nil
}

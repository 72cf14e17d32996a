package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed marks a stored document that exists but cannot be decoded.
var ErrMalformed = errors.New("malformed document")

// LoadJSON decodes the document at key into dst. A missing key yields
// domain.ErrNotFound, an undecodable one an error wrapping ErrMalformed.
func LoadJSON(ctx context.Context, s Store, key string, dst interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: key=%s: %v", ErrMalformed, key, err)
	}
	return nil
}

// SaveJSON overwrites the document at key with v.
func SaveJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

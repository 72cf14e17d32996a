package session

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidID is returned when a client presents a session id this service
// could not have issued.
var ErrInvalidID = errors.New("invalid session id")

// Service issues opaque client session ids. The ids carry no state of their
// own; everything keyed by them lives in the key/value stores.
type Service struct {
	newID func() string
}

func New() *Service {
	return &Service{newID: func() string { return uuid.NewString() }}
}

// Issue returns a fresh session id.
func (s *Service) Issue() string {
	return s.newID()
}

// Validate normalizes a presented id, rejecting anything that is not a UUID.
func (s *Service) Validate(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

// Resolve validates id and issues a new one when it is missing or invalid.
// The boolean reports whether a new id was issued.
func (s *Service) Resolve(id string) (string, bool) {
	if valid, err := s.Validate(id); err == nil {
		return valid, false
	}
	return s.Issue(), true
}

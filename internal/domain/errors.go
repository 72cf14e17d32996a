package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique field is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotLoggedIn is returned when an operation needs a current user and the session has none.
	ErrNotLoggedIn = errors.New("not logged in")
)

// ValidationError reports a single field-level failure. Validation always runs
// before anything is written, so a ValidationError means nothing was persisted.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

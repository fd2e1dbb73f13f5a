package service

import (
	"errors"

	"github.com/pagecraft/internal/repository"
)

// Storage-side error kinds, shared with the repository.
var (
	ErrNotFound        = repository.ErrNotFound
	ErrStorage         = repository.ErrStorage
	ErrSettingsMissing = repository.ErrSettingsMissing
)

// Input error kinds.
var (
	ErrBadInput               = errors.New("malformed identifier")
	ErrInvalidSlug            = errors.New("invalid url")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidPositiveInteger = errors.New("invalid positive integer")
	ErrURLTaken               = errors.New("url already in use")
)

// ValidationError is a user-correctable failure. Message is meant for display;
// errors.Is matches Kind.
type ValidationError struct {
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(kind error, message string) error {
	return &ValidationError{Kind: kind, Message: message}
}

// IsUserError reports whether err is a ValidationError the admin can fix by
// changing the submitted form, as opposed to a server-side failure.
func IsUserError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// UserMessage returns the display message of a ValidationError, or fallback.
func UserMessage(err error, fallback string) string {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Message != "" {
		return verr.Message
	}
	return fallback
}

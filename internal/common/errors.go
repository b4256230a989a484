// Package common defines shared constants and sentinel errors used across
// the TaskFlow server layers. Callers should use errors.Is to match these
// values; the REST layer is the only place that maps them to status codes.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")

	// ErrInvalidToken is the parent of every token verification failure.
	ErrInvalidToken = errors.New("invalid token")

	// Token verification failures. Each one wraps ErrInvalidToken.
	ErrTokenExpired           = &tokenError{msg: "token expired"}
	ErrTokenMalformed         = &tokenError{msg: "token malformed"}
	ErrTokenSignatureMismatch = &tokenError{msg: "token signature mismatch"}
)

type tokenError struct {
	msg string
}

func (e *tokenError) Error() string { return e.msg }

func (e *tokenError) Unwrap() error { return ErrInvalidToken }

// Error pairs a sentinel kind with a message that is safe to show to API
// clients. errors.Is(err, Kind) holds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

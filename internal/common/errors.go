package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("no refresh token")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrInternalServer     = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Duplicate email maps to 400 rather than 409: the frontend treats it as a
// form validation failure.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrInvalidResetToken) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrMissingToken) || errors.Is(err, ErrUnauthenticated) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}

	// Unique constraint violations from the store count as duplicates even
	// when the repository did not translate them.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// UserMessage returns the client-safe text for an error. Anything that is
// not a known sentinel collapses to a generic message so wrapped internals
// never reach a response body.
func UserMessage(err error) string {
	sentinels := []error{
		ErrNotFound, ErrDuplicateEmail, ErrInvalidCredentials, ErrMissingToken,
		ErrInvalidToken, ErrInvalidResetToken, ErrUnauthenticated, ErrForbidden,
		ErrBadRequest,
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateEmail.Error()
	}
	return ErrInternalServer.Error()
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

package service

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors. Handlers map these to HTTP statuses; anything else coming
// out of a service is a store failure.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyBody          = errors.New("message cannot be empty")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authorization required")
	ErrUnauthorized       = errors.New("invalid token")
	ErrNotFound           = errors.New("not found")
)

// checkText rejects strings Postgres cannot store in a text column. The
// NUL byte is the only such character; left unchecked it comes back from
// the driver as a store failure instead of a client error.
func checkText(field, value string) error {
	if strings.ContainsRune(value, 0) {
		return fmt.Errorf("%w: %s must not contain NUL characters", ErrInvalidInput, field)
	}
	return nil
}

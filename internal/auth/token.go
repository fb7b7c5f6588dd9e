package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// NewToken mints an opaque account token.
//
// A version 4 UUID carries 122 random bits read from crypto/rand, which is
// unguessable for this purpose. The token is not signed and carries no
// claims; it only means something as a key into the users table.
func NewToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return id.String(), nil
}

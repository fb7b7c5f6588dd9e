package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_InvalidInput(t *testing.T) {
	svc := newTestServices(t).auth
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"missing username", "", "secret"},
		{"missing password", "alice", ""},
		{"short username", "al", "secret"},
		{"short password", "alice", "pw"},
		{"nul in username", "al\x00ice", "secret"},
		{"password over bcrypt limit", "alice", strings.Repeat("p", MaxPasswordBytes+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegister_CountsCharactersNotBytes(t *testing.T) {
	svc := newTestServices(t).auth

	// Three characters, six bytes.
	_, err := svc.Register(context.Background(), "äää", "секрет")
	assert.NoError(t, err)

	// Two characters, four bytes.
	_, err = svc.Register(context.Background(), "ää", "секрет")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegister_UniqueTokensResolveToOwner(t *testing.T) {
	svc := newTestServices(t).auth
	ctx := context.Background()

	tokens := make(map[string]string)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("user%02d", i)
		token, err := svc.Register(ctx, name, "secret")
		require.NoError(t, err)
		_, dup := tokens[token]
		require.False(t, dup, "token issued twice")
		tokens[token] = name
	}

	for token, name := range tokens {
		u, err := svc.ResolveToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, name, u.Username)
	}
}

func TestRegister_DuplicateKeepsFirstToken(t *testing.T) {
	svc := newTestServices(t).auth
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other-password")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	u, err := svc.ResolveToken(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
}

func TestRegister_DoesNotStorePlaintext(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.auth.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	u, err := s.store.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestServices(t).auth
	ctx := context.Background()

	token, err := svc.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	t.Run("correct password returns the same token", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, token, u.Token)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "mallory", "secret1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("username is case-sensitive", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "Alice", "secret1")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestResolveToken(t *testing.T) {
	svc := newTestServices(t).auth
	ctx := context.Background()

	_, err := svc.ResolveToken(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ResolveToken(ctx, "no-such-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

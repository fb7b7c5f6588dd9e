package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lalith-99/deskchat/internal/auth"
	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/repository"
	"go.uber.org/zap"
)

// MinCredentialLength applies to both username and password, in characters.
const MinCredentialLength = 3

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

// AuthService is the credential store: registration, login and token
// resolution.
type AuthService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, hasher *auth.Hasher, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, logger: logger}
}

// Register creates an account and returns its permanent token. The
// password is hashed before it reaches the store and is never returned.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) < MinCredentialLength || utf8.RuneCountInString(password) < MinCredentialLength {
		return "", fmt.Errorf("%w: username and password must be at least %d characters", ErrInvalidInput, MinCredentialLength)
	}
	if err := checkText("username", username); err != nil {
		return "", err
	}
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}

	user, err := s.users.Create(ctx, username, hash, token)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return "", ErrDuplicateUsername
		}
		return "", err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user.Token, nil
}

// Authenticate checks a username/password pair and returns the account's
// existing token. Login never mints a new token.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if err := checkText("username", username); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	// Why compare against a dummy hash for an unknown user?
	//   - Returning right away would answer "no such user" in microseconds
	//     and "wrong password" in tens of milliseconds. That gap tells a
	//     caller which usernames exist, even with identical error bodies.
	if user == nil {
		s.hasher.CompareDummy(password)
		return nil, ErrUserNotFound
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ResolveToken maps a token to its user. It has no side effects.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	if strings.ContainsRune(token, 0) {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

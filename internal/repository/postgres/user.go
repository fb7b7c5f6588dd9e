package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/repository"
)

// SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// usernameConstraint matches the constraint name in 00001_init.sql.
const usernameConstraint = "users_username_key"

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Create inserts a new user row. Postgres generates the ID and timestamp.
// A clash on the username constraint becomes repository.ErrDuplicateUsername.
func (s *UserStore) Create(ctx context.Context, username, passwordHash, token string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, token, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, username, password_hash, token, created_at`

	var u models.User
	err := s.pool.QueryRow(ctx, query, username, passwordHash, token).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Token,
		&u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, usernameConstraint) {
			return nil, repository.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, token, created_at
		FROM users
		WHERE username = $1`

	return s.getOne(ctx, "get user by username", query, username)
}

func (s *UserStore) GetByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, token, created_at
		FROM users
		WHERE token = $1`

	return s.getOne(ctx, "get user by token", query, token)
}

func (s *UserStore) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Token,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

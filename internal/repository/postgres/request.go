package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/deskchat/internal/models"
)

type RequestStore struct {
	pool *pgxpool.Pool
}

func NewRequestStore(pool *pgxpool.Pool) *RequestStore {
	return &RequestStore{pool: pool}
}

const requestColumns = `id, owner_token, author_username, title, description, priority, status, created_at, updated_at`

func (s *RequestStore) Create(ctx context.Context, ownerToken, authorUsername, title, description string, priority models.Priority) (*models.Request, error) {
	query := `
		INSERT INTO requests (owner_token, author_username, title, description, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'new', now(), now())
		RETURNING ` + requestColumns

	rows, err := s.pool.Query(ctx, query, ownerToken, authorUsername, title, description, string(priority))
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	req, err := pgx.CollectExactlyOneRow(rows, scanRequest)
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return &req, nil
}

func (s *RequestStore) ListAll(ctx context.Context) ([]models.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		ORDER BY created_at DESC, id DESC`

	return s.list(ctx, query)
}

func (s *RequestStore) ListByOwner(ctx context.Context, ownerToken string) ([]models.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM requests
		WHERE owner_token = $1
		ORDER BY created_at DESC, id DESC`

	return s.list(ctx, query, ownerToken)
}

// DeleteOwned checks ownership and deletes in one statement.
//
// Why not SELECT the owner first and then DELETE?
//   - Two statements leave a gap in which the row can change hands or
//     vanish. With the owner in the WHERE clause, Postgres does the check
//     and the delete atomically.
//   - RowsAffected then answers both questions at once: 0 means "missing
//     or not yours", which the service reports as not found either way.
func (s *RequestStore) DeleteOwned(ctx context.Context, id int64, ownerToken string) (bool, error) {
	query := `
		DELETE FROM requests
		WHERE id = $1 AND owner_token = $2`

	tag, err := s.pool.Exec(ctx, query, id, ownerToken)
	if err != nil {
		return false, fmt.Errorf("delete request: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus clamps updated_at to created_at so clock skew between the
// insert and the update can never produce updated_at < created_at.
func (s *RequestStore) UpdateStatus(ctx context.Context, id int64, status models.Status) (bool, error) {
	query := `
		UPDATE requests
		SET status = $2, updated_at = GREATEST(now(), created_at)
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id, string(status))
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *RequestStore) list(ctx context.Context, query string, args ...any) ([]models.Request, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	requests, err := pgx.CollectRows(rows, scanRequest)
	if err != nil {
		return nil, fmt.Errorf("scan requests: %w", err)
	}
	if requests == nil {
		requests = make([]models.Request, 0)
	}
	return requests, nil
}

func scanRequest(row pgx.CollectableRow) (models.Request, error) {
	var (
		r        models.Request
		priority string
		status   string
	)
	err := row.Scan(
		&r.ID,
		&r.OwnerToken,
		&r.AuthorUsername,
		&r.Title,
		&r.Description,
		&priority,
		&status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	r.Priority = models.Priority(priority)
	r.Status = models.Status(status)
	return r, err
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/repository"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

func (s *MessageStore) Create(ctx context.Context, ownerToken, authorUsername, body string) (*models.Message, error) {
	// Messages use bigserial, so Postgres generates the ID.
	query := `
		INSERT INTO messages (owner_token, author_username, body, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, owner_token, author_username, body, created_at`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, ownerToken, authorUsername, body).Scan(
		&msg.ID,
		&msg.OwnerToken,
		&msg.AuthorUsername,
		&msg.Body,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// Import bulk-loads legacy messages with the COPY protocol. COPY is a
// single statement, so either every entry lands or none do.
func (s *MessageStore) Import(ctx context.Context, ownerToken, authorUsername string, entries []repository.ImportedMessage) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	n, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{"messages"},
		[]string{"owner_token", "author_username", "body", "created_at"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{ownerToken, authorUsername, e.Body, e.CreatedAt}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy messages: %w", err)
	}
	return int(n), nil
}

func (s *MessageStore) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	// The inner query picks the newest window; the outer one flips it back
	// to reading order. id breaks ties between equal timestamps, which
	// happen with imported messages.
	query := `
		SELECT id, owner_token, author_username, body, created_at
		FROM (
			SELECT id, owner_token, author_username, body, created_at
			FROM messages
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		) recent
		ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.OwnerToken,
			&msg.AuthorUsername,
			&msg.Body,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lalith-99/deskchat/internal/models"
)

// Every method takes ctx first so a cancelled HTTP request also cancels
// its store round trip.
//
// Lookups report "not found" as nil, nil. Keyed writes (delete, update)
// report it as false, nil. Anything else returned as an error is a store
// failure.

// ErrDuplicateUsername is returned by UserRepository.Create when the
// username is already taken. Implementations detect it from the unique
// constraint, not from a prior lookup, so two concurrent registrations of
// the same name cannot both succeed.
var ErrDuplicateUsername = errors.New("username already exists")

// UserRepository persists accounts and their tokens.
type UserRepository interface {
	// Create inserts a user and returns it with ID and CreatedAt populated.
	Create(ctx context.Context, username, passwordHash, token string) (*models.User, error)

	// GetByUsername is the login lookup. Usernames are case-sensitive.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByToken is the hot path: every protected request calls it once.
	GetByToken(ctx context.Context, token string) (*models.User, error)
}

// ImportedMessage is one legacy chat entry being bulk-loaded with its
// original timestamp.
type ImportedMessage struct {
	Body      string
	CreatedAt time.Time
}

// MessageRepository is the append-only chat log.
type MessageRepository interface {
	// Create appends a message stamped with the store's current time.
	Create(ctx context.Context, ownerToken, authorUsername, body string) (*models.Message, error)

	// Import appends several messages attributed to one owner, keeping
	// their timestamps. Returns how many rows were written.
	Import(ctx context.Context, ownerToken, authorUsername string, entries []ImportedMessage) (int, error)

	// ListRecent returns the newest `limit` messages in ascending time
	// order (oldest of the window first). Returns an empty slice, not nil.
	ListRecent(ctx context.Context, limit int) ([]models.Message, error)
}

// RequestRepository stores support tickets.
type RequestRepository interface {
	// Create inserts a ticket with status new.
	Create(ctx context.Context, ownerToken, authorUsername, title, description string, priority models.Priority) (*models.Request, error)

	// ListAll returns every ticket, newest first.
	ListAll(ctx context.Context) ([]models.Request, error)

	// ListByOwner returns the tickets created with ownerToken, newest first.
	ListByOwner(ctx context.Context, ownerToken string) ([]models.Request, error)

	// DeleteOwned removes ticket id only if ownerToken owns it. A missing
	// ticket and someone else's ticket both report false.
	DeleteOwned(ctx context.Context, id int64, ownerToken string) (bool, error)

	// UpdateStatus sets the status and refreshes updated_at. Returns false
	// when no ticket has that id.
	UpdateStatus(ctx context.Context, id int64, status models.Status) (bool, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// Package memory keeps users, messages and tickets in process memory.
// It backs the test suites and STORE=memory dev runs; nothing survives a
// restart. Each method holds the store's lock for its whole body, which
// gives the same one-statement-at-a-time behaviour as the SQL store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/repository"
)

// Store implements every repository interface over a shared lock.
type Store struct {
	mu sync.RWMutex

	users      map[int64]*models.User
	byUsername map[string]int64
	byToken    map[string]int64
	messages   []models.Message
	requests   map[int64]*models.Request
	nextUserID int64
	nextMsgID  int64
	nextReqID  int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:      make(map[int64]*models.User),
		byUsername: make(map[string]int64),
		byToken:    make(map[string]int64),
		requests:   make(map[int64]*models.Request),
		now:        time.Now,
	}
}

// Compile-time checks.
var (
	_ repository.UserRepository    = (*Store)(nil)
	_ repository.MessageRepository = (*MessageLog)(nil)
	_ repository.RequestRepository = (*RequestQueue)(nil)
	_ repository.Pinger            = (*Store)(nil)
)

func (s *Store) Health(ctx context.Context) error {
	return ctx.Err()
}

// Messages returns the chat log view of the store.
func (s *Store) Messages() *MessageLog { return &MessageLog{s: s} }

// Requests returns the ticket view of the store.
func (s *Store) Requests() *RequestQueue { return &RequestQueue{s: s} }

// ---------------------------------------------------------------
// Users
// ---------------------------------------------------------------

func (s *Store) Create(ctx context.Context, username, passwordHash, token string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[username]; taken {
		return nil, repository.ErrDuplicateUsername
	}

	s.nextUserID++
	u := &models.User{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		Token:        token,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u
	s.byUsername[username] = u.ID
	s.byToken[token] = u.ID

	cp := *u
	return &cp, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.lookup(ctx, s.byUsername, username)
}

func (s *Store) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return s.lookup(ctx, s.byToken, token)
}

func (s *Store) lookup(ctx context.Context, index map[string]int64, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := index[key]
	if !ok {
		return nil, nil
	}
	cp := *s.users[id]
	return &cp, nil
}

// ---------------------------------------------------------------
// Messages
// ---------------------------------------------------------------

// MessageLog is the append-only chat log backed by Store.
type MessageLog struct {
	s *Store
}

func (l *MessageLog) Create(ctx context.Context, ownerToken, authorUsername, body string) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.appendMessage(ownerToken, authorUsername, body, s.now())
	return &msg, nil
}

func (l *MessageLog) Import(ctx context.Context, ownerToken, authorUsername string, entries []repository.ImportedMessage) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s := l.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.appendMessage(ownerToken, authorUsername, e.Body, e.CreatedAt)
	}
	return len(entries), nil
}

// appendMessage must be called with mu held.
func (s *Store) appendMessage(ownerToken, authorUsername, body string, at time.Time) models.Message {
	s.nextMsgID++
	msg := models.Message{
		ID:             s.nextMsgID,
		OwnerToken:     ownerToken,
		AuthorUsername: authorUsername,
		Body:           body,
		CreatedAt:      at,
	}
	s.messages = append(s.messages, msg)
	return msg
}

func (l *MessageLog) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := l.s
	s.mu.RLock()
	all := make([]models.Message, len(s.messages))
	copy(all, s.messages)
	s.mu.RUnlock()

	// Imports can carry timestamps older than existing rows, so append
	// order is not time order.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	if limit >= 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// ---------------------------------------------------------------
// Requests
// ---------------------------------------------------------------

// RequestQueue is the ticket store backed by Store.
type RequestQueue struct {
	s *Store
}

func (q *RequestQueue) Create(ctx context.Context, ownerToken, authorUsername, title, description string, priority models.Priority) (*models.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := q.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.nextReqID++
	r := &models.Request{
		ID:             s.nextReqID,
		OwnerToken:     ownerToken,
		AuthorUsername: authorUsername,
		Title:          title,
		Description:    description,
		Priority:       priority,
		Status:         models.StatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.requests[r.ID] = r

	cp := *r
	return &cp, nil
}

func (q *RequestQueue) ListAll(ctx context.Context) ([]models.Request, error) {
	return q.list(ctx, func(*models.Request) bool { return true })
}

func (q *RequestQueue) ListByOwner(ctx context.Context, ownerToken string) ([]models.Request, error) {
	return q.list(ctx, func(r *models.Request) bool { return r.OwnerToken == ownerToken })
}

func (q *RequestQueue) list(ctx context.Context, keep func(*models.Request) bool) ([]models.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := q.s
	s.mu.RLock()
	out := make([]models.Request, 0, len(s.requests))
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, *r)
		}
	}
	s.mu.RUnlock()

	// Newest first.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (q *RequestQueue) DeleteOwned(ctx context.Context, id int64, ownerToken string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := q.s
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok || r.OwnerToken != ownerToken {
		return false, nil
	}
	delete(s.requests, id)
	return true, nil
}

func (q *RequestQueue) UpdateStatus(ctx context.Context, id int64, status models.Status) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s := q.s
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return false, nil
	}
	now := s.now()
	if now.Before(r.CreatedAt) {
		now = r.CreatedAt
	}
	r.Status = status
	r.UpdatedAt = now
	return true, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/repository"
	"go.uber.org/zap"
)

// RecentWindow is how many messages ListRecent returns. Older messages
// stay stored but are no longer readable through the API.
const RecentWindow = 100

type MessageService struct {
	repo   repository.MessageRepository
	logger *zap.Logger
}

func NewMessageService(repo repository.MessageRepository, logger *zap.Logger) *MessageService {
	return &MessageService{repo: repo, logger: logger}
}

// Append posts text to the shared log as identity.
func (s *MessageService) Append(ctx context.Context, identity *models.User, text string) (int64, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return 0, ErrEmptyBody
	}
	if err := checkText("text", body); err != nil {
		return 0, err
	}

	msg, err := s.repo.Create(ctx, identity.Token, identity.Username, body)
	if err != nil {
		return 0, err
	}
	return msg.ID, nil
}

// ListRecent returns the newest RecentWindow messages, oldest first.
func (s *MessageService) ListRecent(ctx context.Context) ([]models.Message, error) {
	return s.repo.ListRecent(ctx, RecentWindow)
}

// LegacyMessage is a chat entry exported from an old browser-side log.
type LegacyMessage struct {
	Text      string
	Timestamp time.Time
}

// Import bulk-loads legacy messages as identity. Blank entries are
// skipped, and a zero timestamp or one outside the years 1..9999 becomes
// now. Returns the number stored.
func (s *MessageService) Import(ctx context.Context, identity *models.User, legacy []LegacyMessage) (int, error) {
	now := time.Now()
	entries := make([]repository.ImportedMessage, 0, len(legacy))
	for _, m := range legacy {
		body := strings.TrimSpace(m.Text)
		if body == "" {
			continue
		}
		if err := checkText("text", body); err != nil {
			return 0, err
		}
		at := m.Timestamp
		if at.IsZero() || !representable(at) {
			at = now
		}
		entries = append(entries, repository.ImportedMessage{Body: body, CreatedAt: at})
	}

	n, err := s.repo.Import(ctx, identity.Token, identity.Username, entries)
	if err != nil {
		return 0, err
	}

	s.logger.Info("legacy messages imported",
		zap.String("username", identity.Username),
		zap.Int("submitted", len(legacy)),
		zap.Int("imported", n),
	)
	return n, nil
}

// representable reports whether t survives a JSON round trip; time.Time
// refuses to marshal years outside 0..9999.
func representable(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 1 && y <= 9999
}

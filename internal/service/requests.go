package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lalith-99/deskchat/internal/models"
	"github.com/lalith-99/deskchat/internal/repository"
	"go.uber.org/zap"
)

// RequestService manages the shared ticket queue.
//
// Reads are not owner-scoped: every authenticated user sees every ticket.
// Delete is owner-only. Status changes are open to any authenticated user;
// there is no role model to restrict them to.
type RequestService struct {
	repo   repository.RequestRepository
	logger *zap.Logger
}

func NewRequestService(repo repository.RequestRepository, logger *zap.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

// Create opens a ticket owned by identity. A blank priority means medium;
// an unrecognised one is also stored as medium.
func (s *RequestService) Create(ctx context.Context, identity *models.User, title, description, priority string) (int64, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return 0, fmt.Errorf("%w: title and description are required", ErrInvalidInput)
	}
	if err := checkText("title", title); err != nil {
		return 0, err
	}
	if err := checkText("description", description); err != nil {
		return 0, err
	}

	p, ok := models.ParsePriority(strings.TrimSpace(priority))
	if !ok {
		s.logger.Debug("unknown priority, using default",
			zap.String("priority", priority),
			zap.String("default", p.String()),
		)
	}

	req, err := s.repo.Create(ctx, identity.Token, identity.Username, title, description, p)
	if err != nil {
		return 0, err
	}
	return req.ID, nil
}

// ListAll returns every ticket, newest first.
func (s *RequestService) ListAll(ctx context.Context) ([]models.Request, error) {
	return s.repo.ListAll(ctx)
}

// ListOwned returns identity's own tickets, newest first.
func (s *RequestService) ListOwned(ctx context.Context, identity *models.User) ([]models.Request, error) {
	return s.repo.ListByOwner(ctx, identity.Token)
}

// Delete removes ticket id if identity owns it. Someone else's ticket
// reports ErrNotFound, same as a missing one.
func (s *RequestService) Delete(ctx context.Context, identity *models.User, id int64) error {
	deleted, err := s.repo.DeleteOwned(ctx, id, identity.Token)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.logger.Info("request deleted", zap.Int64("request_id", id), zap.String("username", identity.Username))
	return nil
}

// UpdateStatus moves ticket id to status. The status is validated before
// the store is touched, so a rejected update changes nothing.
func (s *RequestService) UpdateStatus(ctx context.Context, id int64, status string) error {
	next := models.Status(status)
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

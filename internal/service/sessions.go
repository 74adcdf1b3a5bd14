package service

import (
	"context"
	"errors"
	"fmt"

	"skillstreak/internal/model"
	"skillstreak/internal/repository"
	"skillstreak/internal/timer"

	"github.com/google/uuid"
)

// CategoryGetter is the slice of the repository the session flow needs.
type CategoryGetter interface {
	GetSkillCategory(ctx context.Context, id uuid.UUID) (*model.SkillCategory, error)
}

type SessionService struct {
	categories CategoryGetter
	manager    *timer.Manager
	notifier   Notifier
}

func NewSessionService(categories CategoryGetter, manager *timer.Manager, notifier Notifier) *SessionService {
	return &SessionService{
		categories: categories,
		manager:    manager,
		notifier:   notifier,
	}
}

// Start begins a countdown for the user. Any previous session is discarded.
func (s *SessionService) Start(ctx context.Context, userID, categoryID uuid.UUID, durationMinutes int) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	if _, err := s.categories.GetSkillCategory(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}

	s.manager.Start(userID, categoryID, durationMinutes*60, func() {
		s.notifier.Publish(userID, Notification{
			Type: "session_completed",
			Payload: map[string]any{
				"category_id": categoryID.String(),
			},
		})
	})

	return nil
}

func (s *SessionService) Pause(userID uuid.UUID) error {
	return s.manager.Pause(userID)
}

func (s *SessionService) Resume(userID uuid.UUID) error {
	return s.manager.Resume(userID)
}

func (s *SessionService) Reset(userID uuid.UUID) error {
	return s.manager.Reset(userID)
}

func (s *SessionService) Status(userID uuid.UUID) (*timer.Session, error) {
	return s.manager.Status(userID)
}

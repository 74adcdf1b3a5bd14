package service

import (
	"context"
	"errors"
	"fmt"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"
	"skillstreak/internal/repository"
	"skillstreak/internal/timer"

	"github.com/google/uuid"
)

// SessionGate reports a user's active countdown, if any. The practice flow
// consumes a completed session on submission.
type SessionGate interface {
	Status(userID uuid.UUID) (*timer.Session, error)
	Clear(userID uuid.UUID)
}

type PracticeService struct {
	repo     PracticeRepository
	sessions SessionGate
	notifier Notifier
}

func NewPracticeService(repo PracticeRepository, sessions SessionGate, notifier Notifier) *PracticeService {
	return &PracticeService{
		repo:     repo,
		sessions: sessions,
		notifier: notifier,
	}
}

// Submit applies one practice event: it validates the event against the
// category's minimum duration, runs the progression engine over the user's
// progress record, and persists the record, practice row and unlocks
// together. Notifications go out after the write, fire-and-forget.
func (s *PracticeService) Submit(ctx context.Context, sub PracticeSubmission) (*model.Practice, *progression.Result, error) {
	if sub.Duration <= 0 {
		return nil, nil, ErrDurationTooShort
	}

	category, err := s.repo.GetSkillCategory(ctx, sub.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, fmt.Errorf("failed to get category: %w", err)
	}

	if sub.Duration < category.MinimumDuration {
		return nil, nil, ErrDurationTooShort
	}

	// a running countdown for this category must finish before submission
	sessionCompleted := false
	if session, err := s.sessions.Status(sub.UserID); err == nil && session.CategoryID == sub.CategoryID {
		if session.Timer.State != timer.Completed {
			return nil, nil, ErrSessionNotCompleted
		}
		sessionCompleted = true
	}

	rec := progression.Record{}
	skill, err := s.repo.GetSkill(ctx, sub.UserID, sub.CategoryID)
	switch {
	case err == nil:
		rec = skill.Record
	case errors.Is(err, repository.ErrNotFound):
		// first practice in this category, zero-valued record
	default:
		return nil, nil, fmt.Errorf("failed to get skill: %w", err)
	}

	catalog, err := s.repo.GetAchievementCatalog(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	unlocked, err := s.repo.GetUnlockedSet(ctx, sub.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load unlocked achievements: %w", err)
	}

	result := progression.Apply(rec, progression.Event{
		CategoryID: sub.CategoryID,
		Minutes:    sub.Duration,
		Date:       progression.DateOf(sub.SubmitTime),
	}, category.Thresholds, catalog, unlocked)

	practice := &model.Practice{
		ID:         uuid.New(),
		UserID:     sub.UserID,
		CategoryID: sub.CategoryID,
		Duration:   sub.Duration,
		Photo:      sub.Photo,
		Notes:      sub.Notes,
		CreatedAt:  sub.SubmitTime,
	}

	err = s.repo.SubmitPractice(ctx, practice, result.Record, result.NewUnlocks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist practice: %w", err)
	}

	if sessionCompleted {
		s.sessions.Clear(sub.UserID)
	}

	for _, achievementID := range result.NewUnlocks {
		s.notifier.Publish(sub.UserID, Notification{
			Type: "achievement_unlocked",
			Payload: map[string]any{
				"achievement_id": achievementID.String(),
				"category_id":    sub.CategoryID.String(),
			},
		})
	}
	if result.TokenAwarded {
		s.notifier.Publish(sub.UserID, Notification{
			Type: "token_awarded",
			Payload: map[string]any{
				"category_id":    sub.CategoryID.String(),
				"current_streak": result.Record.CurrentStreak,
				"redeem_tokens":  result.Record.RedeemTokens,
			},
		})
	}

	return practice, &result, nil
}

func (s *PracticeService) GetByID(ctx context.Context, userID, practiceID uuid.UUID) (*model.Practice, error) {
	practice, err := s.repo.GetPracticeByID(ctx, practiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to get practice: %w", err)
	}

	if practice.UserID != userID {
		friends, err := s.repo.AreFriends(ctx, userID, practice.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check friendship: %w", err)
		}
		if !friends {
			return nil, ErrNotAuthorized
		}
	}

	return practice, nil
}

func (s *PracticeService) ListOwn(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit, page int) ([]*model.Practice, int, error) {
	offset := (page - 1) * limit
	practices, total, err := s.repo.GetUserPractices(ctx, userID, categoryID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list practices: %w", err)
	}
	return practices, total, nil
}

func (s *PracticeService) FriendsFeed(ctx context.Context, userID uuid.UUID, limit, page int) ([]*model.Practice, int, error) {
	offset := (page - 1) * limit
	practices, total, err := s.repo.GetFriendsFeed(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get friends feed: %w", err)
	}
	return practices, total, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"
	"skillstreak/internal/repository"

	"github.com/google/uuid"
)

type AchievementService struct {
	repo AchievementRepository
}

func NewAchievementService(repo AchievementRepository) *AchievementService {
	return &AchievementService{
		repo: repo,
	}
}

func validAchievementType(t progression.AchievementType) bool {
	switch t {
	case progression.TypeStreak, progression.TypePracticeTime,
		progression.TypeMilestones, progression.TypeSpecial:
		return true
	default:
		return false
	}
}

func (s *AchievementService) Create(ctx context.Context, achievement *model.Achievement) error {
	if !validAchievementType(achievement.Type) {
		return fmt.Errorf("unknown achievement type %q", achievement.Type)
	}
	if achievement.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive")
	}

	if achievement.SkillSpecific {
		if achievement.SkillCategory == nil {
			return fmt.Errorf("skill-specific achievement requires a category")
		}
		_, err := s.repo.GetSkillCategory(ctx, *achievement.SkillCategory)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("failed to get category: %w", err)
		}
	} else {
		achievement.SkillCategory = nil
	}

	achievement.ID = uuid.New()
	achievement.CreatedAt = time.Now().UTC()

	err := s.repo.CreateAchievement(ctx, achievement)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return ErrNameTaken
		}
		return fmt.Errorf("failed to create achievement: %w", err)
	}

	return nil
}

func (s *AchievementService) List(ctx context.Context) ([]*model.Achievement, error) {
	achievements, err := s.repo.GetAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

func (s *AchievementService) UserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error) {
	achievements, err := s.repo.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user achievements: %w", err)
	}
	return achievements, nil
}

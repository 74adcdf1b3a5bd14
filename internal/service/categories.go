package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/repository"

	"github.com/google/uuid"
)

const defaultMinimumDuration = 15

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

func (s *CategoryService) Create(ctx context.Context, category *model.SkillCategory) error {
	if !category.Thresholds.Valid() {
		return ErrInvalidThresholds
	}

	if category.MinimumDuration <= 0 {
		category.MinimumDuration = defaultMinimumDuration
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now().UTC()

	err := s.repo.CreateSkillCategory(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return ErrNameTaken
		}
		return fmt.Errorf("failed to create skill category: %w", err)
	}

	return nil
}

func (s *CategoryService) List(ctx context.Context) ([]*model.SkillCategory, error) {
	categories, err := s.repo.GetSkillCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) UserSkills(ctx context.Context, userID uuid.UUID) ([]*model.Skill, error) {
	skills, err := s.repo.GetUserSkills(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user skills: %w", err)
	}
	return skills, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"skillstreak/internal/model"
	"skillstreak/internal/repository"

	"github.com/google/uuid"
)

type RewardService struct {
	repo     RewardRepository
	catalog  []model.Reward
	notifier Notifier
}

// NewRewardService takes the reward catalog from configuration; rewards are
// static per deployment, not stored.
func NewRewardService(repo RewardRepository, catalog []model.Reward, notifier Notifier) *RewardService {
	return &RewardService{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
	}
}

func (s *RewardService) List() []model.Reward {
	out := make([]model.Reward, len(s.catalog))
	copy(out, s.catalog)
	return out
}

func (s *RewardService) Redeem(ctx context.Context, userID, categoryID uuid.UUID, rewardID string) (*model.Reward, int, error) {
	var reward *model.Reward
	for i := range s.catalog {
		if s.catalog[i].ID == rewardID {
			reward = &s.catalog[i]
			break
		}
	}
	if reward == nil {
		return nil, 0, ErrRewardNotFound
	}

	remaining, err := s.repo.SpendTokens(ctx, userID, categoryID, reward.Cost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, 0, ErrCategoryNotFound
		case errors.Is(err, repository.ErrInsufficientTokens):
			return nil, 0, ErrInsufficientTokens
		}
		return nil, 0, fmt.Errorf("failed to spend tokens: %w", err)
	}

	s.notifier.Publish(userID, Notification{
		Type: "token_redeemed",
		Payload: map[string]any{
			"category_id":      categoryID.String(),
			"reward_id":        reward.ID,
			"remaining_tokens": remaining,
		},
	})

	return reward, remaining, nil
}

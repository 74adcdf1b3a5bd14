package service

import (
	"context"
	"testing"

	"skillstreak/internal/model"
	"skillstreak/internal/repository"
	"skillstreak/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testRewardCatalog() []model.Reward {
	return []model.Reward{
		{ID: "custom_badge", Name: "Custom Badge", Cost: 10},
		{ID: "profile_theme", Name: "Profile Theme", Cost: 15},
		{ID: "streak_protection", Name: "Streak Protection", Cost: 20},
	}
}

func TestRewardService_Redeem(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	tests := []struct {
		name          string
		rewardID      string
		setupMocks    func(repo *mocks.MockRewardRepository)
		expectedError error
		remaining     int
		notifyTypes   []string
	}{
		{
			name:     "successful redemption deducts cost",
			rewardID: "custom_badge",
			setupMocks: func(repo *mocks.MockRewardRepository) {
				repo.On("SpendTokens", mock.Anything, userID, categoryID, 10).
					Return(2, nil)
			},
			remaining:   2,
			notifyTypes: []string{"token_redeemed"},
		},
		{
			name:          "unknown reward never touches the repository",
			rewardID:      "golden_trophy",
			setupMocks:    func(repo *mocks.MockRewardRepository) {},
			expectedError: ErrRewardNotFound,
		},
		{
			name:     "insufficient tokens",
			rewardID: "streak_protection",
			setupMocks: func(repo *mocks.MockRewardRepository) {
				repo.On("SpendTokens", mock.Anything, userID, categoryID, 20).
					Return(0, repository.ErrInsufficientTokens)
			},
			expectedError: ErrInsufficientTokens,
		},
		{
			name:     "unknown category",
			rewardID: "profile_theme",
			setupMocks: func(repo *mocks.MockRewardRepository) {
				repo.On("SpendTokens", mock.Anything, userID, categoryID, 15).
					Return(0, repository.ErrNotFound)
			},
			expectedError: ErrCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockRewardRepository{}
			notifier := &recordingNotifier{}
			tt.setupMocks(repo)

			svc := NewRewardService(repo, testRewardCatalog(), notifier)
			reward, remaining, err := svc.Redeem(context.Background(), userID, categoryID, tt.rewardID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, notifier.types())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.rewardID, reward.ID)
				assert.Equal(t, tt.remaining, remaining)
				assert.Equal(t, tt.notifyTypes, notifier.types())
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestRewardService_List_CopiesCatalog(t *testing.T) {
	svc := NewRewardService(&mocks.MockRewardRepository{}, testRewardCatalog(), &recordingNotifier{})

	rewards := svc.List()
	assert.Len(t, rewards, 3)

	rewards[0].Cost = 999
	assert.Equal(t, 10, svc.List()[0].Cost)
}

package mocks

import (
	"context"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPracticeRepository struct {
	mock.Mock
}

func (m *MockPracticeRepository) GetSkillCategory(ctx context.Context, id uuid.UUID) (*model.SkillCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SkillCategory), args.Error(1)
}

func (m *MockPracticeRepository) GetSkill(ctx context.Context, userID, categoryID uuid.UUID) (*model.Skill, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Skill), args.Error(1)
}

func (m *MockPracticeRepository) GetAchievementCatalog(ctx context.Context) (*progression.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*progression.Catalog), args.Error(1)
}

func (m *MockPracticeRepository) GetUnlockedSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]struct{}), args.Error(1)
}

func (m *MockPracticeRepository) SubmitPractice(ctx context.Context, practice *model.Practice, rec progression.Record, unlocks []uuid.UUID) error {
	args := m.Called(ctx, practice, rec, unlocks)
	return args.Error(0)
}

func (m *MockPracticeRepository) GetPracticeByID(ctx context.Context, id uuid.UUID) (*model.Practice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Practice), args.Error(1)
}

func (m *MockPracticeRepository) GetUserPractices(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit, offset int) ([]*model.Practice, int, error) {
	args := m.Called(ctx, userID, categoryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Practice), args.Int(1), args.Error(2)
}

func (m *MockPracticeRepository) GetFriendsFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Practice, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Practice), args.Int(1), args.Error(2)
}

func (m *MockPracticeRepository) AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

type MockRewardRepository struct {
	mock.Mock
}

func (m *MockRewardRepository) SpendTokens(ctx context.Context, userID, categoryID uuid.UUID, cost int) (int, error) {
	args := m.Called(ctx, userID, categoryID, cost)
	return args.Int(0), args.Error(1)
}

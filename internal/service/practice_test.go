package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"
	"skillstreak/internal/repository"
	"skillstreak/internal/service/mocks"
	"skillstreak/internal/timer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Notification
}

func (n *recordingNotifier) Publish(_ uuid.UUID, event Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type stubGate struct {
	session *timer.Session
	cleared bool
}

func (g *stubGate) Status(uuid.UUID) (*timer.Session, error) {
	if g.session == nil {
		return nil, timer.ErrNoActiveSession
	}
	return g.session, nil
}

func (g *stubGate) Clear(uuid.UUID) {
	g.cleared = true
}

func testCategory(id uuid.UUID) *model.SkillCategory {
	return &model.SkillCategory{
		ID:              id,
		Name:            "Guitar",
		MinimumDuration: 15,
		Thresholds:      progression.DefaultThresholds(),
	}
}

func TestPracticeService_Submit(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	submitTime := time.Date(2025, time.June, 10, 18, 30, 0, 0, time.UTC)
	prevDay := progression.DateOf(submitTime.AddDate(0, 0, -1))

	tests := []struct {
		name          string
		sub           PracticeSubmission
		gate          *stubGate
		setupMocks    func(repo *mocks.MockPracticeRepository)
		expectedError error
		check         func(t *testing.T, practice *model.Practice, result *progression.Result, notifier *recordingNotifier, gate *stubGate)
	}{
		{
			name: "non-positive duration rejected before any lookup",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   0,
				SubmitTime: submitTime,
			},
			gate:          &stubGate{},
			setupMocks:    func(repo *mocks.MockPracticeRepository) {},
			expectedError: ErrDurationTooShort,
		},
		{
			name: "duration below category minimum rejected",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   10,
				SubmitTime: submitTime,
			},
			gate: &stubGate{},
			setupMocks: func(repo *mocks.MockPracticeRepository) {
				repo.On("GetSkillCategory", mock.Anything, categoryID).
					Return(testCategory(categoryID), nil)
			},
			expectedError: ErrDurationTooShort,
		},
		{
			name: "unknown category",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   30,
				SubmitTime: submitTime,
			},
			gate: &stubGate{},
			setupMocks: func(repo *mocks.MockPracticeRepository) {
				repo.On("GetSkillCategory", mock.Anything, categoryID).
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrCategoryNotFound,
		},
		{
			name: "running countdown for the category blocks submission",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   30,
				SubmitTime: submitTime,
			},
			gate: &stubGate{session: &timer.Session{
				CategoryID: categoryID,
				Timer:      timer.Timer{State: timer.Running, Duration: 1800, Remaining: 600},
			}},
			setupMocks: func(repo *mocks.MockPracticeRepository) {
				repo.On("GetSkillCategory", mock.Anything, categoryID).
					Return(testCategory(categoryID), nil)
			},
			expectedError: ErrSessionNotCompleted,
		},
		{
			name: "first practice creates a day-one record",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   30,
				Photo:      "uploads/practice/abc.jpg",
				SubmitTime: submitTime,
			},
			gate: &stubGate{},
			setupMocks: func(repo *mocks.MockPracticeRepository) {
				repo.On("GetSkillCategory", mock.Anything, categoryID).
					Return(testCategory(categoryID), nil)
				repo.On("GetSkill", mock.Anything, userID, categoryID).
					Return(nil, repository.ErrNotFound)
				repo.On("GetAchievementCatalog", mock.Anything).
					Return(progression.NewCatalog(nil), nil)
				repo.On("GetUnlockedSet", mock.Anything, userID).
					Return(map[uuid.UUID]struct{}{}, nil)
				repo.On("SubmitPractice", mock.Anything, mock.MatchedBy(func(p *model.Practice) bool {
					return p.UserID == userID && p.Duration == 30 && p.Photo == "uploads/practice/abc.jpg"
				}), mock.MatchedBy(func(rec progression.Record) bool {
					return rec.CurrentStreak == 1 && rec.LongestStreak == 1 && rec.TotalPracticeTime == 30
				}), mock.Anything).Return(nil)
			},
			check: func(t *testing.T, practice *model.Practice, result *progression.Result, notifier *recordingNotifier, gate *stubGate) {
				assert.Equal(t, 1, result.Record.CurrentStreak)
				assert.False(t, result.TokenAwarded)
				assert.Empty(t, notifier.types())
			},
		},
		{
			name: "consecutive day crossing the token interval notifies",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   20,
				SubmitTime: submitTime,
			},
			gate: &stubGate{session: &timer.Session{
				CategoryID: categoryID,
				Timer:      timer.Timer{State: timer.Completed, Duration: 1200},
			}},
			setupMocks: func(repo *mocks.MockPracticeRepository) {
				repo.On("GetSkillCategory", mock.Anything, categoryID).
					Return(testCategory(categoryID), nil)
				repo.On("GetSkill", mock.Anything, userID, categoryID).
					Return(&model.Skill{
						UserID:     userID,
						CategoryID: categoryID,
						Record: progression.Record{
							CurrentStreak:     4,
							LongestStreak:     6,
							TotalPracticeTime: 290,
							LastPracticeDate:  &prevDay,
							Level:             progression.LevelBeginner,
						},
					}, nil)
				repo.On("GetAchievementCatalog", mock.Anything).
					Return(progression.NewCatalog(nil), nil)
				repo.On("GetUnlockedSet", mock.Anything, userID).
					Return(map[uuid.UUID]struct{}{}, nil)
				repo.On("SubmitPractice", mock.Anything, mock.Anything, mock.MatchedBy(func(rec progression.Record) bool {
					return rec.CurrentStreak == 5 &&
						rec.LongestStreak == 6 &&
						rec.TotalPracticeTime == 310 &&
						rec.RedeemTokens == 1 &&
						rec.Level == progression.LevelRookie
				}), mock.Anything).Return(nil)
			},
			check: func(t *testing.T, practice *model.Practice, result *progression.Result, notifier *recordingNotifier, gate *stubGate) {
				assert.True(t, result.TokenAwarded)
				assert.Contains(t, notifier.types(), "token_awarded")
				assert.True(t, gate.cleared, "completed session must be consumed")
			},
		},
		{
			name: "persistence error propagates unchanged",
			sub: PracticeSubmission{
				UserID:     userID,
				CategoryID: categoryID,
				Duration:   30,
				SubmitTime: submitTime,
			},
			gate: &stubGate{},
			setupMocks: func(repo *mocks.MockPracticeRepository) {
				repo.On("GetSkillCategory", mock.Anything, categoryID).
					Return(testCategory(categoryID), nil)
				repo.On("GetSkill", mock.Anything, userID, categoryID).
					Return(nil, repository.ErrNotFound)
				repo.On("GetAchievementCatalog", mock.Anything).
					Return(progression.NewCatalog(nil), nil)
				repo.On("GetUnlockedSet", mock.Anything, userID).
					Return(map[uuid.UUID]struct{}{}, nil)
				repo.On("SubmitPractice", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockPracticeRepository{}
			notifier := &recordingNotifier{}
			tt.setupMocks(repo)

			svc := NewPracticeService(repo, tt.gate, notifier)
			practice, result, err := svc.Submit(context.Background(), tt.sub)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, practice)
				assert.NotNil(t, result)
				if tt.check != nil {
					tt.check(t, practice, result, notifier, tt.gate)
				}
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestPracticeService_Submit_AchievementNotifications(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	streak2 := uuid.New()
	submitTime := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	prevDay := progression.DateOf(submitTime.AddDate(0, 0, -1))

	repo := &mocks.MockPracticeRepository{}
	notifier := &recordingNotifier{}

	repo.On("GetSkillCategory", mock.Anything, categoryID).
		Return(testCategory(categoryID), nil)
	repo.On("GetSkill", mock.Anything, userID, categoryID).
		Return(&model.Skill{
			UserID:     userID,
			CategoryID: categoryID,
			Record: progression.Record{
				CurrentStreak:     1,
				LongestStreak:     1,
				TotalPracticeTime: 15,
				LastPracticeDate:  &prevDay,
				Level:             progression.LevelBeginner,
			},
		}, nil)
	repo.On("GetAchievementCatalog", mock.Anything).
		Return(progression.NewCatalog([]progression.Rule{
			{ID: streak2, Type: progression.TypeStreak, Threshold: 2},
		}), nil)
	repo.On("GetUnlockedSet", mock.Anything, userID).
		Return(map[uuid.UUID]struct{}{}, nil)
	repo.On("SubmitPractice", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(unlocks []uuid.UUID) bool {
			return len(unlocks) == 1 && unlocks[0] == streak2
		})).Return(nil)

	svc := NewPracticeService(repo, &stubGate{}, notifier)
	_, result, err := svc.Submit(context.Background(), PracticeSubmission{
		UserID:     userID,
		CategoryID: categoryID,
		Duration:   20,
		SubmitTime: submitTime,
	})

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{streak2}, result.NewUnlocks)
	assert.Equal(t, []string{"achievement_unlocked"}, notifier.types())
	repo.AssertExpectations(t)
}

func TestPracticeService_GetByID_Authorization(t *testing.T) {
	owner := uuid.New()
	friend := uuid.New()
	stranger := uuid.New()
	practiceID := uuid.New()

	practice := &model.Practice{
		ID:     practiceID,
		UserID: owner,
	}

	repo := &mocks.MockPracticeRepository{}
	repo.On("GetPracticeByID", mock.Anything, practiceID).Return(practice, nil)
	repo.On("AreFriends", mock.Anything, friend, owner).Return(true, nil)
	repo.On("AreFriends", mock.Anything, stranger, owner).Return(false, nil)

	svc := NewPracticeService(repo, &stubGate{}, &recordingNotifier{})

	got, err := svc.GetByID(context.Background(), owner, practiceID)
	assert.NoError(t, err)
	assert.Equal(t, practice, got)

	got, err = svc.GetByID(context.Background(), friend, practiceID)
	assert.NoError(t, err)
	assert.Equal(t, practice, got)

	_, err = svc.GetByID(context.Background(), stranger, practiceID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	repo.AssertExpectations(t)
}

package service

import (
	"context"
	"errors"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"
	"skillstreak/internal/timer"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCategoryNotFound    = errors.New("skill category not found")
	ErrPracticeNotFound    = errors.New("practice not found")
	ErrRewardNotFound      = errors.New("reward not found")
	ErrEmailTaken          = errors.New("user already exists")
	ErrNameTaken           = errors.New("name already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidThresholds   = errors.New("thresholds must be strictly increasing")
	ErrDurationTooShort    = errors.New("practice duration below category minimum")
	ErrNotFriends          = errors.New("users are not friends")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrInsufficientTokens  = errors.New("insufficient tokens")
	ErrSessionNotCompleted = errors.New("active session has not completed yet")
)

// Notification is a fire-and-forget event pushed to a user's websocket
// channel. Delivery is best-effort and never awaited.
type Notification struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Notifier interface {
	Publish(userID uuid.UUID, n Notification)
}

type Service struct {
	*UserService
	*CategoryService
	*PracticeService
	*AchievementService
	*RewardService
	*MessageService
	*SessionService
}

type UserServiceI interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, email, password, profileImage string) (*model.User, error)
	SendFriendRequest(ctx context.Context, targetID, requesterID uuid.UUID) error
	AcceptFriendRequest(ctx context.Context, userID, requesterID uuid.UUID) error
	GetFriends(ctx context.Context, userID uuid.UUID) ([]*model.Friend, error)
	GetFriendRequests(ctx context.Context, userID uuid.UUID) ([]*model.FriendRequest, error)
	GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	CreateFriendRequest(ctx context.Context, targetID, requesterID uuid.UUID) error
	AcceptFriendRequest(ctx context.Context, userID, requesterID uuid.UUID) error
	GetFriends(ctx context.Context, userID uuid.UUID) ([]*model.Friend, error)
	GetFriendRequests(ctx context.Context, userID uuid.UUID) ([]*model.FriendRequest, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error)
}

type CategoryServiceI interface {
	Create(ctx context.Context, category *model.SkillCategory) error
	List(ctx context.Context) ([]*model.SkillCategory, error)
	UserSkills(ctx context.Context, userID uuid.UUID) ([]*model.Skill, error)
}

type CategoryRepository interface {
	CreateSkillCategory(ctx context.Context, category *model.SkillCategory) error
	GetSkillCategories(ctx context.Context) ([]*model.SkillCategory, error)
	GetUserSkills(ctx context.Context, userID uuid.UUID) ([]*model.Skill, error)
}

type PracticeServiceI interface {
	Submit(ctx context.Context, sub PracticeSubmission) (*model.Practice, *progression.Result, error)
	GetByID(ctx context.Context, userID, practiceID uuid.UUID) (*model.Practice, error)
	ListOwn(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit, page int) ([]*model.Practice, int, error)
	FriendsFeed(ctx context.Context, userID uuid.UUID, limit, page int) ([]*model.Practice, int, error)
}

type PracticeRepository interface {
	GetSkillCategory(ctx context.Context, id uuid.UUID) (*model.SkillCategory, error)
	GetSkill(ctx context.Context, userID, categoryID uuid.UUID) (*model.Skill, error)
	GetAchievementCatalog(ctx context.Context) (*progression.Catalog, error)
	GetUnlockedSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
	SubmitPractice(ctx context.Context, practice *model.Practice, rec progression.Record, unlocks []uuid.UUID) error
	GetPracticeByID(ctx context.Context, id uuid.UUID) (*model.Practice, error)
	GetUserPractices(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit, offset int) ([]*model.Practice, int, error)
	GetFriendsFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Practice, int, error)
	AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
}

type AchievementServiceI interface {
	Create(ctx context.Context, achievement *model.Achievement) error
	List(ctx context.Context) ([]*model.Achievement, error)
	UserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error)
}

type AchievementRepository interface {
	CreateAchievement(ctx context.Context, achievement *model.Achievement) error
	GetAchievements(ctx context.Context) ([]*model.Achievement, error)
	GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error)
	GetSkillCategory(ctx context.Context, id uuid.UUID) (*model.SkillCategory, error)
}

type RewardServiceI interface {
	List() []model.Reward
	Redeem(ctx context.Context, userID, categoryID uuid.UUID, rewardID string) (*model.Reward, int, error)
}

type RewardRepository interface {
	SpendTokens(ctx context.Context, userID, categoryID uuid.UUID, cost int) (int, error)
}

type MessageServiceI interface {
	Send(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*model.Message, error)
	Conversation(ctx context.Context, userID, otherID uuid.UUID, limit, page int) ([]*model.Message, error)
}

type MessageRepository interface {
	CreateMessage(ctx context.Context, message *model.Message) error
	GetConversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]*model.Message, error)
	AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type SessionServiceI interface {
	Start(ctx context.Context, userID, categoryID uuid.UUID, durationMinutes int) error
	Pause(userID uuid.UUID) error
	Resume(userID uuid.UUID) error
	Reset(userID uuid.UUID) error
	Status(userID uuid.UUID) (*timer.Session, error)
}

// PracticeSubmission is one validated-at-the-edge practice event.
type PracticeSubmission struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Duration   int
	Photo      string
	Notes      string
	SubmitTime time.Time
}

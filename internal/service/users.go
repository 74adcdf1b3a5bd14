package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/repository"
	"skillstreak/pkg/auth"

	"github.com/google/uuid"
)

const leaderboardLimit = 100

type UserService struct {
	repo UserRepository
	auth *auth.JWTAuth
}

func NewUserService(repo UserRepository, a *auth.JWTAuth) *UserService {
	return &UserService{
		repo: repo,
		auth: a,
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		ProfileImage: "default-profile.png",
		CreatedAt:    time.Now().UTC(),
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email, password, profileImage string) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	if profileImage != "" {
		user.ProfileImage = profileImage
	}
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	err = s.repo.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) SendFriendRequest(ctx context.Context, targetID, requesterID uuid.UUID) error {
	err := s.repo.CreateFriendRequest(ctx, targetID, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) AcceptFriendRequest(ctx context.Context, userID, requesterID uuid.UUID) error {
	err := s.repo.AcceptFriendRequest(ctx, userID, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *UserService) GetFriends(ctx context.Context, userID uuid.UUID) ([]*model.Friend, error) {
	friends, err := s.repo.GetFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return friends, nil
}

func (s *UserService) GetFriendRequests(ctx context.Context, userID uuid.UUID) ([]*model.FriendRequest, error) {
	requests, err := s.repo.GetFriendRequests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend requests: %w", err)
	}
	return requests, nil
}

func (s *UserService) GetLeaderboard(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	entries, err := s.repo.GetLeaderboard(ctx, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

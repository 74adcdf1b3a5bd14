package model

import (
	"time"

	"github.com/google/uuid"

	"skillstreak/internal/progression"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	ProfileImage string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Skill is one user's progress record in a single category.
type Skill struct {
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Record     progression.Record
}

type Friend struct {
	ID           uuid.UUID
	Name         string
	ProfileImage string
}

type FriendRequest struct {
	RequesterID   uuid.UUID
	RequesterName string
	CreatedAt     time.Time
}

type LeaderboardEntry struct {
	UserID            uuid.UUID
	Name              string
	ProfileImage      string
	TotalPracticeTime int
}

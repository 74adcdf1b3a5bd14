package model

import (
	"time"

	"github.com/google/uuid"

	"skillstreak/internal/progression"
)

type Achievement struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Icon          string
	Type          progression.AchievementType
	Threshold     int
	SkillSpecific bool
	SkillCategory *uuid.UUID
	CreatedAt     time.Time
}

type UserAchievement struct {
	Achievement
	UnlockedAt time.Time
}

// Reward is a catalog entry purchasable with redeem tokens.
type Reward struct {
	ID          string
	Name        string
	Description string
	Cost        int
}

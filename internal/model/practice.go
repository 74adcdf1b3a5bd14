package model

import (
	"time"

	"github.com/google/uuid"

	"skillstreak/internal/progression"
)

type SkillCategory struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Icon            string
	MinimumDuration int
	Thresholds      progression.Thresholds
	CreatedAt       time.Time
}

type Practice struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	CategoryID uuid.UUID
	Duration   int
	Photo      string
	Notes      string
	CreatedAt  time.Time
}

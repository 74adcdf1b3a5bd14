package progression

import "github.com/google/uuid"

type AchievementType string

const (
	TypeStreak       AchievementType = "streak"
	TypePracticeTime AchievementType = "practice_time"
	TypeMilestones   AchievementType = "milestones"
	TypeSpecial      AchievementType = "special"
)

// Rule is a single unlock condition from the achievement catalog.
type Rule struct {
	ID            uuid.UUID
	Type          AchievementType
	Threshold     int
	SkillSpecific bool
	SkillCategory uuid.UUID
}

// Catalog holds unlock rules indexed by type so evaluation does not scan
// unrelated rules on every practice event.
type Catalog struct {
	byType map[AchievementType][]Rule
}

func NewCatalog(rules []Rule) *Catalog {
	byType := make(map[AchievementType][]Rule)
	for _, r := range rules {
		byType[r.Type] = append(byType[r.Type], r)
	}
	return &Catalog{byType: byType}
}

// Eligible returns the IDs of rules of the given type whose threshold is met
// by observed, scoped to categoryID for skill-specific rules, excluding
// anything already in unlocked. Result order is unspecified.
func (c *Catalog) Eligible(t AchievementType, observed int, categoryID uuid.UUID, unlocked map[uuid.UUID]struct{}) []uuid.UUID {
	var ids []uuid.UUID
	for _, r := range c.byType[t] {
		if r.Threshold > observed {
			continue
		}
		if _, ok := unlocked[r.ID]; ok {
			continue
		}
		if r.SkillSpecific && r.SkillCategory != categoryID {
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids
}

package repository

import (
	"context"
	"fmt"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type achievementRow struct {
	ID            uuid.UUID  `db:"id"`
	Name          string     `db:"name"`
	Description   string     `db:"description"`
	Icon          string     `db:"icon"`
	Type          string     `db:"type"`
	Threshold     int        `db:"threshold"`
	SkillSpecific bool       `db:"skill_specific"`
	SkillCategory *uuid.UUID `db:"skill_category"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (a achievementRow) toModel() *model.Achievement {
	return &model.Achievement{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		Icon:          a.Icon,
		Type:          progression.AchievementType(a.Type),
		Threshold:     a.Threshold,
		SkillSpecific: a.SkillSpecific,
		SkillCategory: a.SkillCategory,
		CreatedAt:     a.CreatedAt,
	}
}

func (a achievementRow) toRule() progression.Rule {
	rule := progression.Rule{
		ID:            a.ID,
		Type:          progression.AchievementType(a.Type),
		Threshold:     a.Threshold,
		SkillSpecific: a.SkillSpecific,
	}
	if a.SkillCategory != nil {
		rule.SkillCategory = *a.SkillCategory
	}
	return rule
}

func (r *Repository) CreateAchievement(ctx context.Context, achievement *model.Achievement) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM achievements WHERE name = $1)", achievement.Name)
		if err != nil {
			return fmt.Errorf("failed to check achievement name: %w", err)
		}
		if exists {
			return ErrAlreadyExists
		}

		query, args, err := squirrel.
			Insert("achievements").
			SetMap(map[string]interface{}{
				"id":             achievement.ID,
				"name":           achievement.Name,
				"description":    achievement.Description,
				"icon":           achievement.Icon,
				"type":           string(achievement.Type),
				"threshold":      achievement.Threshold,
				"skill_specific": achievement.SkillSpecific,
				"skill_category": achievement.SkillCategory,
				"created_at":     achievement.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build achievement insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert achievement: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetAchievements(ctx context.Context) ([]*model.Achievement, error) {
	query, args, err := squirrel.
		Select("*").
		From("achievements").
		OrderBy("type", "threshold").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []achievementRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	achievements := make([]*model.Achievement, len(rows))
	for i, row := range rows {
		achievements[i] = row.toModel()
	}

	return achievements, nil
}

// GetAchievementCatalog loads every unlock rule as an indexed catalog for the
// progression engine.
func (r *Repository) GetAchievementCatalog(ctx context.Context) (*progression.Catalog, error) {
	query, args, err := squirrel.
		Select("*").
		From("achievements").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []achievementRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	rules := make([]progression.Rule, len(rows))
	for i, row := range rows {
		rules[i] = row.toRule()
	}

	return progression.NewCatalog(rules), nil
}

func (r *Repository) GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]*model.UserAchievement, error) {
	type unlockedRow struct {
		achievementRow
		UnlockedAt time.Time `db:"unlocked_at"`
	}

	query, args, err := squirrel.
		Select("a.*", "ua.unlocked_at").
		From("user_achievements ua").
		Join("achievements a ON a.id = ua.achievement_id").
		Where(squirrel.Eq{"ua.user_id": userID}).
		OrderBy("ua.unlocked_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []unlockedRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	achievements := make([]*model.UserAchievement, len(rows))
	for i, row := range rows {
		achievements[i] = &model.UserAchievement{
			Achievement: *row.achievementRow.toModel(),
			UnlockedAt:  row.UnlockedAt,
		}
	}

	return achievements, nil
}

// GetUnlockedSet returns the ids of every achievement the user already has,
// as a set for the progression engine.
func (r *Repository) GetUnlockedSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	query, args, err := squirrel.
		Select("achievement_id").
		From("user_achievements").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err = r.db.SelectContext(ctx, &ids, query, args...)
	if err != nil {
		return nil, err
	}

	unlocked := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unlocked[id] = struct{}{}
	}

	return unlocked, nil
}

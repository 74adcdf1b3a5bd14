package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/progression"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type userSkill struct {
	UserID            uuid.UUID    `db:"user_id"`
	CategoryID        uuid.UUID    `db:"category_id"`
	CurrentStreak     int          `db:"current_streak"`
	LongestStreak     int          `db:"longest_streak"`
	TotalPracticeTime int          `db:"total_practice_time"`
	LastPracticeDate  sql.NullTime `db:"last_practice_date"`
	Level             string       `db:"level"`
	RedeemTokens      int          `db:"redeem_tokens"`
}

func (s userSkill) toModel() *model.Skill {
	rec := progression.Record{
		CurrentStreak:     s.CurrentStreak,
		LongestStreak:     s.LongestStreak,
		TotalPracticeTime: s.TotalPracticeTime,
		Level:             progression.Level(s.Level),
		RedeemTokens:      s.RedeemTokens,
	}
	if s.LastPracticeDate.Valid {
		d := progression.DateOf(s.LastPracticeDate.Time)
		rec.LastPracticeDate = &d
	}
	return &model.Skill{
		UserID:     s.UserID,
		CategoryID: s.CategoryID,
		Record:     rec,
	}
}

func skillSetMap(userID, categoryID uuid.UUID, rec progression.Record) map[string]interface{} {
	var lastPractice interface{}
	if rec.LastPracticeDate != nil {
		lastPractice = rec.LastPracticeDate.Time()
	}
	return map[string]interface{}{
		"user_id":             userID,
		"category_id":         categoryID,
		"current_streak":      rec.CurrentStreak,
		"longest_streak":      rec.LongestStreak,
		"total_practice_time": rec.TotalPracticeTime,
		"last_practice_date":  lastPractice,
		"level":               string(rec.Level),
		"redeem_tokens":       rec.RedeemTokens,
	}
}

// GetSkill returns the progress record for one user in one category.
// ErrNotFound means the user has never practiced the category.
func (r *Repository) GetSkill(ctx context.Context, userID, categoryID uuid.UUID) (*model.Skill, error) {
	var skill userSkill
	query, args, err := squirrel.
		Select("*").
		From("user_skills").
		Where(squirrel.Eq{"user_id": userID, "category_id": categoryID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &skill, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return skill.toModel(), nil
}

func (r *Repository) GetUserSkills(ctx context.Context, userID uuid.UUID) ([]*model.Skill, error) {
	query, args, err := squirrel.
		Select("*").
		From("user_skills").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("total_practice_time DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var skills []userSkill
	err = r.db.SelectContext(ctx, &skills, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Skill, len(skills))
	for i, s := range skills {
		out[i] = s.toModel()
	}

	return out, nil
}

// SubmitPractice persists the outcome of one practice event: the practice
// row, the recomputed progress record, and any new achievement unlocks, all
// in one transaction.
func (r *Repository) SubmitPractice(ctx context.Context, practice *model.Practice, rec progression.Record, unlocks []uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("practices").
			SetMap(map[string]interface{}{
				"id":          practice.ID,
				"user_id":     practice.UserID,
				"category_id": practice.CategoryID,
				"duration":    practice.Duration,
				"photo":       practice.Photo,
				"notes":       practice.Notes,
				"created_at":  practice.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build practice insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert practice: %w", err)
		}

		skillQuery, skillArgs, err := squirrel.
			Insert("user_skills").
			SetMap(skillSetMap(practice.UserID, practice.CategoryID, rec)).
			Suffix(`ON CONFLICT (user_id, category_id) DO UPDATE SET
				current_streak = EXCLUDED.current_streak,
				longest_streak = EXCLUDED.longest_streak,
				total_practice_time = EXCLUDED.total_practice_time,
				last_practice_date = EXCLUDED.last_practice_date,
				level = EXCLUDED.level,
				redeem_tokens = EXCLUDED.redeem_tokens`).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build skill upsert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, skillQuery, skillArgs...)
		if err != nil {
			return fmt.Errorf("failed to upsert skill: %w", err)
		}

		if len(unlocks) > 0 {
			builder := squirrel.
				Insert("user_achievements").
				Columns("user_id", "achievement_id", "unlocked_at")

			now := time.Now().UTC()
			for _, achievementID := range unlocks {
				builder = builder.Values(practice.UserID, achievementID, now)
			}

			unlockQuery, unlockArgs, err := builder.
				Suffix("ON CONFLICT (user_id, achievement_id) DO NOTHING").
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build unlock insert query: %w", err)
			}

			_, err = tx.ExecContext(ctx, unlockQuery, unlockArgs...)
			if err != nil {
				return fmt.Errorf("failed to insert unlocks: %w", err)
			}
		}

		return nil
	})
}

// SpendTokens decrements a skill's redeem token balance by cost and returns
// the remaining balance.
func (r *Repository) SpendTokens(ctx context.Context, userID, categoryID uuid.UUID, cost int) (int, error) {
	var remaining int
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var skill userSkill
		query, args, err := squirrel.
			Select("*").
			From("user_skills").
			Where(squirrel.Eq{"user_id": userID, "category_id": categoryID}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &skill, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		if skill.RedeemTokens < cost {
			return ErrInsufficientTokens
		}
		remaining = skill.RedeemTokens - cost

		updateQuery, updateArgs, err := squirrel.
			Update("user_skills").
			Set("redeem_tokens", remaining).
			Where(squirrel.Eq{"user_id": userID, "category_id": categoryID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		return err
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

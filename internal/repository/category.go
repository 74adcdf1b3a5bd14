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

type SkillCategory struct {
	ID                   uuid.UUID `db:"id"`
	Name                 string    `db:"name"`
	Description          string    `db:"description"`
	Icon                 string    `db:"icon"`
	MinimumDuration      int       `db:"minimum_duration"`
	RookieThreshold      int       `db:"rookie_threshold"`
	ApprenticeThreshold  int       `db:"apprentice_threshold"`
	MasterThreshold      int       `db:"master_threshold"`
	GrandMasterThreshold int       `db:"grand_master_threshold"`
	CreatedAt            time.Time `db:"created_at"`
}

func (c SkillCategory) toModel() *model.SkillCategory {
	return &model.SkillCategory{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Icon:            c.Icon,
		MinimumDuration: c.MinimumDuration,
		Thresholds: progression.Thresholds{
			Rookie:      c.RookieThreshold,
			Apprentice:  c.ApprenticeThreshold,
			Master:      c.MasterThreshold,
			GrandMaster: c.GrandMasterThreshold,
		},
		CreatedAt: c.CreatedAt,
	}
}

func (r *Repository) CreateSkillCategory(ctx context.Context, category *model.SkillCategory) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM skill_categories WHERE name = $1)", category.Name)
		if err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if exists {
			return ErrAlreadyExists
		}

		query, args, err := squirrel.
			Insert("skill_categories").
			SetMap(map[string]interface{}{
				"id":                     category.ID,
				"name":                   category.Name,
				"description":            category.Description,
				"icon":                   category.Icon,
				"minimum_duration":       category.MinimumDuration,
				"rookie_threshold":       category.Thresholds.Rookie,
				"apprentice_threshold":   category.Thresholds.Apprentice,
				"master_threshold":       category.Thresholds.Master,
				"grand_master_threshold": category.Thresholds.GrandMaster,
				"created_at":             category.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build category insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetSkillCategory(ctx context.Context, id uuid.UUID) (*model.SkillCategory, error) {
	var category SkillCategory
	query, args, err := squirrel.
		Select("*").
		From("skill_categories").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &category, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return category.toModel(), nil
}

func (r *Repository) GetSkillCategories(ctx context.Context) ([]*model.SkillCategory, error) {
	query, args, err := squirrel.
		Select("*").
		From("skill_categories").
		OrderBy("name").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var categories []SkillCategory
	err = r.db.SelectContext(ctx, &categories, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.SkillCategory, len(categories))
	for i, c := range categories {
		out[i] = c.toModel()
	}

	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillstreak/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type practiceRow struct {
	ID         uuid.UUID `db:"id"`
	UserID     uuid.UUID `db:"user_id"`
	CategoryID uuid.UUID `db:"category_id"`
	Duration   int       `db:"duration"`
	Photo      string    `db:"photo"`
	Notes      string    `db:"notes"`
	CreatedAt  time.Time `db:"created_at"`
}

func (p practiceRow) toModel() *model.Practice {
	return &model.Practice{
		ID:         p.ID,
		UserID:     p.UserID,
		CategoryID: p.CategoryID,
		Duration:   p.Duration,
		Photo:      p.Photo,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

func (r *Repository) GetPracticeByID(ctx context.Context, id uuid.UUID) (*model.Practice, error) {
	var practice practiceRow
	query, args, err := squirrel.
		Select("*").
		From("practices").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &practice, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return practice.toModel(), nil
}

// GetUserPractices lists one user's practice sessions, newest first,
// optionally filtered to one category. Returns the page and the total count.
func (r *Repository) GetUserPractices(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, limit, offset int) ([]*model.Practice, int, error) {
	where := squirrel.Eq{"user_id": userID}
	if categoryID != nil {
		where["category_id"] = *categoryID
	}

	query, args, err := squirrel.
		Select("*").
		From("practices").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var rows []practiceRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := squirrel.
		Select("COUNT(*)").
		From("practices").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	practices := make([]*model.Practice, len(rows))
	for i, row := range rows {
		practices[i] = row.toModel()
	}

	return practices, total, nil
}

// GetFriendsFeed lists practices from the user and their friends, newest
// first.
func (r *Repository) GetFriendsFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Practice, int, error) {
	feedWhere := "(user_id = ? OR user_id IN (SELECT friend_id FROM friends WHERE user_id = ?))"

	query, args, err := squirrel.
		Select("*").
		From("practices").
		Where(squirrel.Expr(feedWhere, userID, userID)).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var rows []practiceRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := squirrel.
		Select("COUNT(*)").
		From("practices").
		Where(squirrel.Expr(feedWhere, userID, userID)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, countQuery, countArgs...)
	if err != nil {
		return nil, 0, err
	}

	practices := make([]*model.Practice, len(rows))
	for i, row := range rows {
		practices[i] = row.toModel()
	}

	return practices, total, nil
}

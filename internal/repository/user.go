package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skillstreak/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	ProfileImage string    `db:"profile_image"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u User) toModel() *model.User {
	return &model.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		ProfileImage: u.ProfileImage,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		err := tx.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", user.Email)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return ErrAlreadyExists
		}

		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"id":            user.ID,
				"name":          user.Name,
				"email":         user.Email,
				"password_hash": user.PasswordHash,
				"profile_image": user.ProfileImage,
				"is_admin":      user.IsAdmin,
				"created_at":    user.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		return nil
	})
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *model.User) error {
	query, args, err := squirrel.
		Update("users").
		SetMap(map[string]interface{}{
			"name":          user.Name,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"profile_image": user.ProfileImage,
		}).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) CreateFriendRequest(ctx context.Context, targetID, requesterID uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := getUserWithTx(ctx, tx, targetID); err != nil {
			return err
		}

		var alreadyFriends bool
		err := tx.GetContext(ctx, &alreadyFriends,
			"SELECT EXISTS(SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2)",
			targetID, requesterID)
		if err != nil {
			return err
		}
		if alreadyFriends {
			return ErrAlreadyFriends
		}

		var alreadyRequested bool
		err = tx.GetContext(ctx, &alreadyRequested,
			"SELECT EXISTS(SELECT 1 FROM friend_requests WHERE user_id = $1 AND requester_id = $2)",
			targetID, requesterID)
		if err != nil {
			return err
		}
		if alreadyRequested {
			return ErrRequestAlreadySent
		}

		query, args, err := squirrel.
			Insert("friend_requests").
			SetMap(map[string]interface{}{
				"user_id":      targetID,
				"requester_id": requesterID,
				"created_at":   time.Now().UTC(),
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *Repository) AcceptFriendRequest(ctx context.Context, userID, requesterID uuid.UUID) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := getUserWithTx(ctx, tx, requesterID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM friend_requests WHERE user_id = $1 AND requester_id = $2",
			userID, requesterID)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNoSuchRequest
		}

		// friendship is mutual, one row per direction
		builder := squirrel.
			Insert("friends").
			Columns("user_id", "friend_id").
			Values(userID, requesterID).
			Values(requesterID, userID)

		query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
}

func (r *Repository) GetFriends(ctx context.Context, userID uuid.UUID) ([]*model.Friend, error) {
	type friendRow struct {
		ID           uuid.UUID `db:"id"`
		Name         string    `db:"name"`
		ProfileImage string    `db:"profile_image"`
	}

	query, args, err := squirrel.
		Select("u.id", "u.name", "u.profile_image").
		From("friends f").
		Join("users u ON u.id = f.friend_id").
		Where(squirrel.Eq{"f.user_id": userID}).
		OrderBy("u.name").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []friendRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	friends := make([]*model.Friend, len(rows))
	for i, row := range rows {
		friends[i] = &model.Friend{
			ID:           row.ID,
			Name:         row.Name,
			ProfileImage: row.ProfileImage,
		}
	}

	return friends, nil
}

func (r *Repository) GetFriendRequests(ctx context.Context, userID uuid.UUID) ([]*model.FriendRequest, error) {
	type requestRow struct {
		RequesterID   uuid.UUID `db:"requester_id"`
		RequesterName string    `db:"name"`
		CreatedAt     time.Time `db:"created_at"`
	}

	query, args, err := squirrel.
		Select("fr.requester_id", "u.name", "fr.created_at").
		From("friend_requests fr").
		Join("users u ON u.id = fr.requester_id").
		Where(squirrel.Eq{"fr.user_id": userID}).
		OrderBy("fr.created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []requestRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	requests := make([]*model.FriendRequest, len(rows))
	for i, row := range rows {
		requests[i] = &model.FriendRequest{
			RequesterID:   row.RequesterID,
			RequesterName: row.RequesterName,
			CreatedAt:     row.CreatedAt,
		}
	}

	return requests, nil
}

func (r *Repository) AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	var friends bool
	err := r.db.GetContext(ctx, &friends,
		"SELECT EXISTS(SELECT 1 FROM friends WHERE user_id = $1 AND friend_id = $2)",
		userID, otherID)
	if err != nil {
		return false, err
	}
	return friends, nil
}

func (r *Repository) GetLeaderboard(ctx context.Context, limit int) ([]*model.LeaderboardEntry, error) {
	type leaderboardRow struct {
		UserID            uuid.UUID `db:"id"`
		Name              string    `db:"name"`
		ProfileImage      string    `db:"profile_image"`
		TotalPracticeTime int       `db:"total_practice_time"`
	}

	query, args, err := squirrel.
		Select("u.id", "u.name", "u.profile_image",
			"COALESCE(SUM(s.total_practice_time), 0) AS total_practice_time").
		From("users u").
		LeftJoin("user_skills s ON s.user_id = u.id").
		GroupBy("u.id", "u.name", "u.profile_image").
		OrderBy("total_practice_time DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []leaderboardRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	entries := make([]*model.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = &model.LeaderboardEntry{
			UserID:            row.UserID,
			Name:              row.Name,
			ProfileImage:      row.ProfileImage,
			TotalPracticeTime: row.TotalPracticeTime,
		}
	}

	return entries, nil
}

func getUserWithTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"skillstreak/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

type messageRow struct {
	ID          uuid.UUID `db:"id"`
	SenderID    uuid.UUID `db:"sender_id"`
	RecipientID uuid.UUID `db:"recipient_id"`
	Body        string    `db:"body"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *Repository) CreateMessage(ctx context.Context, message *model.Message) error {
	query, args, err := squirrel.
		Insert("messages").
		SetMap(map[string]interface{}{
			"id":           message.ID,
			"sender_id":    message.SenderID,
			"recipient_id": message.RecipientID,
			"body":         message.Body,
			"created_at":   message.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build message insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// GetConversation lists messages exchanged between two users, newest first.
func (r *Repository) GetConversation(ctx context.Context, userID, otherID uuid.UUID, limit, offset int) ([]*model.Message, error) {
	query, args, err := squirrel.
		Select("*").
		From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": userID, "recipient_id": otherID},
			squirrel.Eq{"sender_id": otherID, "recipient_id": userID},
		}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []messageRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	messages := make([]*model.Message, len(rows))
	for i, row := range rows {
		messages[i] = &model.Message{
			ID:          row.ID,
			SenderID:    row.SenderID,
			RecipientID: row.RecipientID,
			Body:        row.Body,
			CreatedAt:   row.CreatedAt,
		}
	}

	return messages, nil
}

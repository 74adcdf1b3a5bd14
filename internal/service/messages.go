package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/repository"

	"github.com/google/uuid"
)

type MessageService struct {
	repo     MessageRepository
	notifier Notifier
}

func NewMessageService(repo MessageRepository, notifier Notifier) *MessageService {
	return &MessageService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID, recipientID uuid.UUID, body string) (*model.Message, error) {
	if _, err := s.repo.GetUserByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	friends, err := s.repo.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check friendship: %w", err)
	}
	if !friends {
		return nil, ErrNotFriends
	}

	message := &model.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.repo.CreateMessage(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.notifier.Publish(recipientID, Notification{
		Type: "message_received",
		Payload: map[string]any{
			"message_id": message.ID.String(),
			"sender_id":  senderID.String(),
		},
	})

	return message, nil
}

func (s *MessageService) Conversation(ctx context.Context, userID, otherID uuid.UUID, limit, page int) ([]*model.Message, error) {
	offset := (page - 1) * limit
	messages, err := s.repo.GetConversation(ctx, userID, otherID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return messages, nil
}

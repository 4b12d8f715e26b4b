package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

const maxMessageLength = 4000

// FriendChecker responde si dos usuarios son amigos.
type FriendChecker interface {
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
}

// MessageService gestiona mensajes directos entre amigos.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	friends  FriendChecker
}

func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, friends FriendChecker) *MessageService {
	return &MessageService{
		messages: messages,
		users:    users,
		friends:  friends,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID, recipientID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxMessageLength || senderID == recipientID {
		return domain.Message{}, ErrInvalidInput
	}
	if err := s.checkRecipient(ctx, senderID, recipientID); err != nil {
		return domain.Message{}, err
	}

	msg := domain.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// Conversation devuelve los mensajes con otro usuario, del mas antiguo al mas nuevo.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string, limit int) ([]domain.Message, error) {
	if userID == otherID {
		return nil, ErrInvalidInput
	}
	if err := s.checkRecipient(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.messages.ListConversation(ctx, userID, otherID, clampLimit(limit))
}

func (s *MessageService) checkRecipient(ctx context.Context, userID, otherID string) error {
	if !validID(otherID) {
		return ErrUserNotFound
	}
	if _, err := s.users.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	ok, err := s.friends.AreFriends(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFriends
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

// FriendshipService gestiona solicitudes de amistad y la lista de amigos.
type FriendshipService struct {
	friendships repository.FriendshipRepository
	users       repository.UserRepository
}

func NewFriendshipService(friendships repository.FriendshipRepository, users repository.UserRepository) *FriendshipService {
	return &FriendshipService{
		friendships: friendships,
		users:       users,
	}
}

func (s *FriendshipService) SendRequest(ctx context.Context, fromID, toID string) (domain.Friendship, error) {
	if fromID == toID {
		return domain.Friendship{}, ErrInvalidInput
	}
	if !validID(toID) {
		return domain.Friendship{}, ErrUserNotFound
	}
	if _, err := s.users.GetByID(ctx, toID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Friendship{}, ErrUserNotFound
		}
		return domain.Friendship{}, err
	}

	_, err := s.friendships.GetBetween(ctx, fromID, toID)
	if err == nil {
		return domain.Friendship{}, ErrFriendshipExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Friendship{}, err
	}

	f := domain.Friendship{
		ID:          uuid.NewString(),
		RequesterID: fromID,
		AddresseeID: toID,
		Status:      domain.FriendshipPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.friendships.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Friendship{}, ErrFriendshipExists
		}
		return domain.Friendship{}, err
	}
	return f, nil
}

// Accept solo lo puede hacer el destinatario de la solicitud.
func (s *FriendshipService) Accept(ctx context.Context, userID, requestID string) (domain.Friendship, error) {
	if !validID(requestID) {
		return domain.Friendship{}, ErrFriendshipNotFound
	}
	f, err := s.friendships.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Friendship{}, ErrFriendshipNotFound
		}
		return domain.Friendship{}, err
	}
	if f.AddresseeID != userID {
		return domain.Friendship{}, ErrForbidden
	}
	if f.Status == domain.FriendshipAccepted {
		return f, nil
	}

	now := time.Now().UTC()
	if err := s.friendships.Accept(ctx, f.ID, now); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Friendship{}, ErrFriendshipNotFound
		}
		return domain.Friendship{}, err
	}
	f.Status = domain.FriendshipAccepted
	f.AcceptedAt = &now
	return f, nil
}

// Remove borra la relacion desde cualquiera de los dos lados, pendiente o aceptada.
func (s *FriendshipService) Remove(ctx context.Context, userID, otherID string) error {
	if !validID(otherID) {
		return ErrFriendshipNotFound
	}
	f, err := s.friendships.GetBetween(ctx, userID, otherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFriendshipNotFound
		}
		return err
	}
	if err := s.friendships.Delete(ctx, f.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFriendshipNotFound
		}
		return err
	}
	return nil
}

// ListFriends devuelve los usuarios con amistad aceptada.
func (s *FriendshipService) ListFriends(ctx context.Context, userID string) ([]domain.User, error) {
	list, err := s.friendships.ListByUser(ctx, userID, domain.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	friends := make([]domain.User, 0, len(list))
	for _, f := range list {
		u, err := s.users.GetByID(ctx, f.Other(userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		friends = append(friends, u)
	}
	return friends, nil
}

// ListPending devuelve las solicitudes recibidas que siguen pendientes.
func (s *FriendshipService) ListPending(ctx context.Context, userID string) ([]domain.Friendship, error) {
	list, err := s.friendships.ListByUser(ctx, userID, domain.FriendshipPending)
	if err != nil {
		return nil, err
	}
	incoming := make([]domain.Friendship, 0, len(list))
	for _, f := range list {
		if f.AddresseeID == userID {
			incoming = append(incoming, f)
		}
	}
	return incoming, nil
}

func (s *FriendshipService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	f, err := s.friendships.GetBetween(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return f.Status == domain.FriendshipAccepted, nil
}

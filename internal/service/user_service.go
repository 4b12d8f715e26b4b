package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

const (
	maxBioLength       = 500
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// AuthorFeed retira del feed en vivo los posts de un usuario borrado.
type AuthorFeed interface {
	ForgetAuthor(authorID string)
}

// UserService coordina reglas de negocio para perfiles de usuario.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	images repository.ImageRepository
	feed   AuthorFeed
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, images repository.ImageRepository, feed AuthorFeed) *UserService {
	return &UserService{
		logger: logger,
		users:  users,
		images: images,
		feed:   feed,
	}
}

// UpdateProfileInput usa punteros para distinguir campos ausentes de vacios.
type UpdateProfileInput struct {
	Bio            *string
	ProfileImageID *string
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	if !validID(id) {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, prefix string, limit int) ([]domain.User, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return s.users.SearchByUsername(ctx, prefix, limit)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}

	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return domain.User{}, ErrInvalidInput
		}
		user.Bio = bio
	}

	if input.ProfileImageID != nil {
		imageID := strings.TrimSpace(*input.ProfileImageID)
		if imageID == "" {
			user.ProfileImageID = nil
		} else {
			if err := s.checkImageOwner(ctx, imageID, userID); err != nil {
				return domain.User{}, err
			}
			user.ProfileImageID = &imageID
		}
	}

	if err := s.users.UpdateProfile(ctx, user.ID, user.Bio, user.ProfileImageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	if !validID(userID) {
		return ErrUserNotFound
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if s.feed != nil {
		s.feed.ForgetAuthor(userID)
	}
	if s.logger != nil {
		s.logger.Info("user deleted", zap.String("user_id", userID))
	}
	return nil
}

func (s *UserService) checkImageOwner(ctx context.Context, imageID, userID string) error {
	if s.images == nil || !validID(imageID) {
		return ErrImageNotFound
	}
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrImageNotFound
		}
		return err
	}
	if img.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

const (
	maxPostLength    = 2000
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// FeedPublisher recibe los posts recien creados y retira los borrados.
type FeedPublisher interface {
	Publish(post domain.Post)
	Forget(postID string)
}

// PostService gestiona posts y likes.
type PostService struct {
	logger *zap.Logger
	posts  repository.PostRepository
	users  repository.UserRepository
	images repository.ImageRepository
	feed   FeedPublisher
}

func NewPostService(
	logger *zap.Logger,
	posts repository.PostRepository,
	users repository.UserRepository,
	images repository.ImageRepository,
	feed FeedPublisher,
) *PostService {
	return &PostService{
		logger: logger,
		posts:  posts,
		users:  users,
		images: images,
		feed:   feed,
	}
}

type CreatePostInput struct {
	Content string
	ImageID string
}

// Create persiste el post y lo publica en el feed en vivo.
func (s *PostService) Create(ctx context.Context, authorID string, input CreatePostInput) (domain.Post, error) {
	content := strings.TrimSpace(input.Content)
	imageID := strings.TrimSpace(input.ImageID)
	if content == "" && imageID == "" {
		return domain.Post{}, ErrInvalidInput
	}
	if utf8.RuneCountInString(content) > maxPostLength {
		return domain.Post{}, ErrInvalidInput
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrUserNotFound
		}
		return domain.Post{}, err
	}

	post := domain.Post{
		ID:             uuid.NewString(),
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	if imageID != "" {
		if !validID(imageID) {
			return domain.Post{}, ErrImageNotFound
		}
		img, err := s.images.GetByID(ctx, imageID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Post{}, ErrImageNotFound
			}
			return domain.Post{}, err
		}
		if img.OwnerID != author.ID {
			return domain.Post{}, ErrForbidden
		}
		post.ImageID = &imageID
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return domain.Post{}, err
	}

	if s.feed != nil {
		s.feed.Publish(post)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	if !validID(id) {
		return domain.Post{}, ErrPostNotFound
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

func (s *PostService) ListRecent(ctx context.Context, limit int) ([]domain.Post, error) {
	return s.posts.ListRecent(ctx, clampLimit(limit))
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID string, limit int) ([]domain.Post, error) {
	if !validID(authorID) {
		return nil, ErrUserNotFound
	}
	return s.posts.ListByAuthor(ctx, authorID, clampLimit(limit))
}

// Delete solo lo permite al autor del post.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if s.feed != nil {
		s.feed.Forget(post.ID)
	}
	return nil
}

// Like es idempotente; devuelve el post con el contador actualizado.
func (s *PostService) Like(ctx context.Context, userID, postID string) (domain.Post, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return domain.Post{}, err
	}
	if err := s.posts.AddLike(ctx, postID, userID); err != nil {
		return domain.Post{}, err
	}
	return s.Get(ctx, postID)
}

func (s *PostService) Unlike(ctx context.Context, userID, postID string) (domain.Post, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return domain.Post{}, err
	}
	if err := s.posts.RemoveLike(ctx, postID, userID); err != nil {
		return domain.Post{}, err
	}
	return s.Get(ctx, postID)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

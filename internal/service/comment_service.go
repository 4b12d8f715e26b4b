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

const maxCommentLength = 1000

// CommentService gestiona comentarios sobre posts.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	users    repository.UserRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
	}
}

func (s *CommentService) Add(ctx context.Context, postID, authorID, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxCommentLength {
		return domain.Comment{}, ErrInvalidInput
	}
	if _, err := s.post(ctx, postID); err != nil {
		return domain.Comment{}, err
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Comment{}, ErrUserNotFound
		}
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:             uuid.NewString(),
		PostID:         postID,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (s *CommentService) ListForPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.post(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// Delete lo permite al autor del comentario o al autor del post.
func (s *CommentService) Delete(ctx context.Context, userID, commentID string) error {
	if !validID(commentID) {
		return ErrCommentNotFound
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != userID {
		post, err := s.post(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return ErrForbidden
		}
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

func (s *CommentService) post(ctx context.Context, postID string) (domain.Post, error) {
	if !validID(postID) {
		return domain.Post{}, ErrPostNotFound
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

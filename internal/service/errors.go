package service

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrFriendshipNotFound = errors.New("friendship not found")
	ErrFriendshipExists   = errors.New("friendship already exists")
	ErrNotFriends         = errors.New("users are not friends")
	ErrForbidden          = errors.New("forbidden")
	ErrImageTooLarge      = errors.New("image too large")
	ErrUnsupportedImage   = errors.New("unsupported image format")
)

// validID descarta ids que no son UUID antes de llegar a la base.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

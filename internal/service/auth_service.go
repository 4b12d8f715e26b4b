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
	"golang.org/x/crypto/bcrypt"

	"socialnet/internal/domain"
	"socialnet/internal/repository"
)

const (
	maxUsernameLength = 32
	maxPasswordBytes  = 72
)

// AuthService registra usuarios y verifica credenciales.
type AuthService struct {
	logger  *zap.Logger
	users   repository.UserRepository
	limiter LoginRateLimiter
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, limiter LoginRateLimiter) *AuthService {
	if limiter == nil {
		limiter = NewMemoryLoginRateLimiter(10*time.Minute, 10)
	}
	return &AuthService{
		logger:  logger,
		users:   users,
		limiter: limiter,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return domain.User{}, ErrInvalidInput
	}
	if utf8.RuneCountInString(username) > maxUsernameLength || len(password) > maxPasswordBytes {
		return domain.User{}, ErrInvalidInput
	}

	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return domain.User{}, ErrUsernameTaken
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Dos registros concurrentes pueden pasar el chequeo previo.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	if s.logger != nil {
		s.logger.Info("user registered", zap.String("user_id", user.ID))
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return domain.User{}, ErrInvalidInput
	}
	if s.limiter != nil && !s.limiter.Allow(username) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"socialnet/internal/domain"
	"socialnet/internal/service"
)

// SubjectValidator valida un token y devuelve su subject.
type SubjectValidator interface {
	ValidateSubject(token string) (string, bool)
}

// IdentityLookup resuelve el subject de un token a un usuario guardado.
type IdentityLookup interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
}

// IdentityMiddleware adjunta la identidad verificada al request cuando hay un
// bearer token valido de un usuario existente. En cualquier otro caso el
// request sigue sin identidad: la autorizacion la decide cada ruta.
func IdentityMiddleware(logger *zap.Logger, tokens SubjectValidator, users IdentityLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || tokens == nil || users == nil {
			c.Next()
			return
		}

		subject, ok := tokens.ValidateSubject(token)
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetByUsername(c.Request.Context(), subject)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, pgx.ErrNoRows) {
				c.Next()
				return
			}
			logger.Error("identity lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not resolve identity"})
			return
		}

		id := Identity{
			UserID:   user.ID,
			Username: user.Username,
			Scopes:   []string{ScopeUser},
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireIdentity corta con 401 los requests sin identidad verificada.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

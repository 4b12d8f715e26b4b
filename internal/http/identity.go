package http

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ScopeUser es el unico scope que reciben los usuarios autenticados.
const ScopeUser = "ROLE_USER"

const identityKey = "identity"

type identityCtxKey struct{}

// Identity es el usuario verificado asociado a un request.
type Identity struct {
	UserID   string
	Username string
	Scopes   []string
}

// WithIdentity guarda la identidad verificada en el contexto.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext devuelve la identidad del contexto, si existe.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// CurrentIdentity obtiene la identidad desde el contexto de Gin.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return IdentityFromContext(c.Request.Context())
}

package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Auth     *AuthHandler
	Users    *UserHandler
	Posts    *PostHandler
	Friends  *FriendHandler
	Messages *MessageHandler
	Images   *ImageHandler
	Events   *EventsHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
// identity es el filtro que resuelve el bearer token de cada request.
func NewRouter(logger *zap.Logger, identity gin.HandlerFunc, h Handlers) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, JSON content-type e identidad.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware(), identity)

	auth := r.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	r.GET("/events", h.Events.Stream)

	// Lectura publica.
	r.GET("/posts", h.Posts.List)
	r.GET("/posts/:id", h.Posts.Get)
	r.GET("/posts/:id/comments", h.Posts.ListComments)
	r.GET("/users/:id", h.Users.Get)
	r.GET("/users/:id/posts", h.Users.Posts)
	r.GET("/images/:id", h.Images.Get)

	authed := r.Group("", RequireIdentity())

	authed.GET("/users", h.Users.Search)
	authed.GET("/users/me", h.Users.Me)
	authed.PATCH("/users/me", h.Users.UpdateMe)
	authed.DELETE("/users/me", h.Users.DeleteMe)

	authed.POST("/posts", h.Posts.Create)
	authed.DELETE("/posts/:id", h.Posts.Delete)
	authed.POST("/posts/:id/like", h.Posts.Like)
	authed.DELETE("/posts/:id/like", h.Posts.Unlike)
	authed.POST("/posts/:id/comments", h.Posts.AddComment)
	authed.DELETE("/comments/:id", h.Posts.DeleteComment)

	authed.GET("/friends", h.Friends.List)
	authed.DELETE("/friends/:id", h.Friends.Remove)
	authed.GET("/friends/requests", h.Friends.Pending)
	authed.POST("/friends/requests", h.Friends.Request)
	authed.POST("/friends/requests/:id/accept", h.Friends.Accept)

	authed.GET("/messages/:userID", h.Messages.Conversation)
	authed.POST("/messages/:userID", h.Messages.Send)

	authed.POST("/images", h.Images.Upload)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id, ok := CurrentIdentity(c); ok {
			fields = append(fields, zap.String("user_id", id.UserID))
		}
		logger.Info("request", fields...)
	}
}

// jsonContentTypeMiddleware fija Content-Type: application/json por defecto.
// Los handlers de streaming e imagenes lo reemplazan.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"socialnet/internal/config"
	"socialnet/internal/db"
	apihttp "socialnet/internal/http"
	"socialnet/internal/repository"
	"socialnet/internal/service"
	"socialnet/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	signingKey, err := service.NewSigningKey(cfg.JWTSecretKey)
	if err != nil {
		logger.Fatal("jwt signing key", zap.Error(err))
	}
	jwtSvc := service.NewJWTService(signingKey, time.Duration(cfg.JWTExpirationMinutes)*time.Minute)

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	postRepo := repository.NewPgPostRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)
	friendshipRepo := repository.NewPgFriendshipRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	imageRepo := repository.NewPgImageRepository(pool)

	loginWindow := time.Duration(cfg.LoginRateLimitWindowMinutes) * time.Minute
	loginLimiter := service.NewMemoryLoginRateLimiter(loginWindow, cfg.LoginRateLimitMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory login limiter", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, loginWindow, cfg.LoginRateLimitMax)
		}
		cancel()
	}

	objectStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		logger.Fatal("object store", zap.Error(err))
	}

	feedHub := service.NewFeedHub(cfg.FeedReplayLimit)
	defer feedHub.Close()
	if err := feedHub.Seed(ctx, postRepo); err != nil {
		logger.Fatal("feed seed", zap.Error(err))
	}

	authSvc := service.NewAuthService(logger, userRepo, loginLimiter)
	userSvc := service.NewUserService(logger, userRepo, imageRepo, feedHub)
	postSvc := service.NewPostService(logger, postRepo, userRepo, imageRepo, feedHub)
	commentSvc := service.NewCommentService(commentRepo, postRepo, userRepo)
	friendSvc := service.NewFriendshipService(friendshipRepo, userRepo)
	messageSvc := service.NewMessageService(messageRepo, userRepo, friendSvc)
	imageSvc := service.NewImageService(logger, imageRepo, objectStore, cfg.ImageMaxBytes, cfg.ImageMaxPixels, cfg.ImageThumbnailSize)

	router := apihttp.NewRouter(logger, apihttp.IdentityMiddleware(logger, jwtSvc, userSvc), apihttp.Handlers{
		Auth:     apihttp.NewAuthHandler(logger, authSvc, jwtSvc),
		Users:    apihttp.NewUserHandler(logger, userSvc, postSvc),
		Posts:    apihttp.NewPostHandler(logger, postSvc, commentSvc, cfg.FeedPageSize),
		Friends:  apihttp.NewFriendHandler(logger, friendSvc),
		Messages: apihttp.NewMessageHandler(logger, messageSvc),
		Images:   apihttp.NewImageHandler(logger, imageSvc),
		Events:   apihttp.NewEventsHandler(logger, feedHub, 0),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		// Cerrar el hub termina los streams SSE abiertos.
		feedHub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.Int("feed_replay_limit", cfg.FeedReplayLimit),
	)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.S3Bucket != "" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewDiskStore(cfg.ImageStorageDir)
}

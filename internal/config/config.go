package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// security.jwt.secret-key y security.jwt.expiration-minutes.
	JWTSecretKey         string `env:"SECURITY_JWT_SECRET_KEY,required,notEmpty"`
	JWTExpirationMinutes int    `env:"SECURITY_JWT_EXPIRATION_MINUTES" envDefault:"60"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LoginRateLimitWindowMinutes int `env:"LOGIN_RATE_LIMIT_WINDOW_MINUTES" envDefault:"10"`
	LoginRateLimitMax           int `env:"LOGIN_RATE_LIMIT_MAX" envDefault:"10"`

	FeedReplayLimit int `env:"FEED_REPLAY_LIMIT" envDefault:"0"`
	FeedPageSize    int `env:"FEED_PAGE_SIZE" envDefault:"50"`

	ImageStorageDir    string `env:"IMAGE_STORAGE_DIR" envDefault:"./data/images"`
	ImageMaxBytes      int64  `env:"IMAGE_MAX_BYTES" envDefault:"5242880"`
	ImageThumbnailSize int    `env:"IMAGE_THUMBNAIL_SIZE" envDefault:"256"`
	ImageMaxPixels     int    `env:"IMAGE_MAX_PIXELS" envDefault:"40000000"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

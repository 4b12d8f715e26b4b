package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Ventana deslizante sobre un sorted set: el score de cada intento es su
// instante en milisegundos. Los rechazos no cuentan como intento.
//
// KEYS[1] clave del usuario; ARGV: ahora (ms), ventana (ms), maximo, miembro.
const redisSlidingWindowScript = `
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", now - window)
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call("ZADD", KEYS[1], now, ARGV[4])
redis.call("PEXPIRE", KEYS[1], window)
return 1
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisLoginRateLimiter aplica la misma ventana que la version en memoria
// pero compartida entre instancias. Ante errores de Redis deja pasar.
type redisLoginRateLimiter struct {
	client  redisEvaler
	window  time.Duration
	max     int
	keyBase string
	timeout time.Duration
	now     func() time.Time
}

// NewRedisLoginRateLimiter comparte el limite de intentos entre instancias.
func NewRedisLoginRateLimiter(client *redis.Client, window time.Duration, max int) LoginRateLimiter {
	if client == nil {
		return nil
	}
	return newRedisLoginRateLimiter(client, window, max)
}

func newRedisLoginRateLimiter(client redisEvaler, window time.Duration, max int) *redisLoginRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisLoginRateLimiter{
		client:  client,
		window:  window,
		max:     max,
		keyBase: "login:window:",
		timeout: 500 * time.Millisecond,
		now:     time.Now,
	}
}

func (l *redisLoginRateLimiter) Allow(key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	user := strings.ToLower(strings.TrimSpace(key))
	if user == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	nowMs := l.now().UnixMilli()
	member := strconv.FormatInt(nowMs, 10) + "-" + uuid.NewString()
	allowed, err := l.client.Eval(ctx, redisSlidingWindowScript, []string{l.keyBase + user},
		nowMs, l.window.Milliseconds(), l.max, member).Int()
	if err != nil {
		return true
	}
	return allowed == 1
}

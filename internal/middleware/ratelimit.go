package middleware

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared across instances. A nil
// limiter allows everything, so running without redis just disables limiting.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

// NewRedisLimiterFromEnv connects when REDIS_ADDR is set, otherwise returns
// nil.
func NewRedisLimiterFromEnv() *RedisLimiter {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}

	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		// Redis being down must not lock everyone out.
		return true
	}

	return allowed == 1
}

// RateLimit caps requests per client IP for one route group.
func RateLimit(limiter *RedisLimiter, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.Allow("rl:"+name+":"+ctx.ClientIP(), limit, window) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		ctx.Next()
	}
}

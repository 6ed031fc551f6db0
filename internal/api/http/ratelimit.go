package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/medical-records-service/internal/config"
	apperrors "github.com/spec-kit/medical-records-service/pkg/util"
)

// RateLimiter enforces a fixed request window per client IP backed by
// redis INCR/EXPIRE. When redis is unreachable the limiter fails open so
// an outage does not take the API down with it.
type RateLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewRateLimiter builds the limiter; returns nil when disabled.
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if !cfg.Enabled || client == nil {
		return nil
	}
	return &RateLimiter{
		client: client,
		max:    cfg.MaxRequests,
		window: cfg.Window(),
		logger: logger,
	}
}

// Handle applies the limit to the request's client IP.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	key := "ratelimit:" + c.IP()

	count, err := rl.client.Incr(c.Context(), key).Result()
	if err != nil {
		rl.logger.Warn("rate limiter unavailable; allowing request", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := rl.client.Expire(c.Context(), key, rl.window).Err(); err != nil {
			rl.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}

	if count > int64(rl.max) {
		c.Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
		return apperrors.NewRateLimited("Too many requests, please try again later")
	}
	return c.Next()
}

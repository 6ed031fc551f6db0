package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/medical-records-service/internal/config"
)

func newLimiterApp(t *testing.T, maxRequests int) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client, config.RateLimitConfig{
		Enabled:       true,
		MaxRequests:   maxRequests,
		WindowSeconds: 900,
	}, zap.NewNop())
	require.NotNil(t, limiter)

	app := fiber.New()
	app.Use(errorHandlingMiddleware(zap.NewNop(), nil, false))
	app.Use(limiter.Handle)
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app, mr
}

func TestRateLimiter_AllowsWithinWindow(t *testing.T) {
	app, _ := newLimiterApp(t, 3)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	app, _ := newLimiterApp(t, 2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, stdhttp.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	app, mr := newLimiterApp(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(stdhttp.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiter_DisabledReturnsNil(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(nil, config.RateLimitConfig{Enabled: true}, zap.NewNop())
	require.Nil(t, limiter)

	limiter = NewRateLimiter(redis.NewClient(&redis.Options{}), config.RateLimitConfig{Enabled: false}, zap.NewNop())
	require.Nil(t, limiter)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ground-booking/internal/config"
	"github.com/iliyamo/ground-booking/internal/utils"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
}

func doRequest(e *echo.Echo, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, JWTAuth("secret"))

	rec := doRequest(e, http.MethodGet, "/p", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed with a different secret.
	tok, err := utils.NewAccessToken("other", 7, "USER", 5)
	require.NoError(t, err)
	rec = doRequest(e, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer " + tok.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExposesClaims(t *testing.T) {
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"uid":  c.Get("user_id"),
			"role": c.Get("role"),
		})
	}, JWTAuth("secret"))

	tok, err := utils.NewAccessToken("secret", 42, "ADMIN", 5)
	require.NoError(t, err)
	rec := doRequest(e, http.MethodGet, "/p", map[string]string{"Authorization": "Bearer " + tok.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"ADMIN"`)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/admin", okHandler, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("role", "USER")
			return next(c)
		}
	}, RequireRole("ADMIN"))
	e.GET("/any", okHandler, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("role", "USER")
			return next(c)
		}
	}, RequireRole("USER", "ADMIN"))
	e.GET("/norole", okHandler, RequireRole("USER"))

	rec := doRequest(e, http.MethodGet, "/admin", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, http.MethodGet, "/any", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/norole", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestTokenBucketBlocksAfterCapacity(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "test:rl",
	}

	e := echo.New()
	e.GET("/p", okHandler, NewTokenBucket(cfg, rdb))

	for i := 0; i < 2; i++ {
		rec := doRequest(e, http.MethodGet, "/p", nil)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
	rec := doRequest(e, http.MethodGet, "/p", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/p", okHandler, NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil))
	for i := 0; i < 5; i++ {
		rec := doRequest(e, http.MethodGet, "/p", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRedisCacheServesSecondRequestFromCache(t *testing.T) {
	_, rdb := newTestRedis(t)
	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "test:cache",
		MaxBodyBytes: 1 << 20,
	}

	calls := 0
	e := echo.New()
	e.GET("/p", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"calls": calls})
	}, NewRedisCache(cfg, rdb))

	rec := doRequest(e, http.MethodGet, "/p", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()

	rec = doRequest(e, http.MethodGet, "/p", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, rec.Body.String())
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

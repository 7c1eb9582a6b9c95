package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	allowed bool
	retry   int64
	err     error
}

func (s stubLimiter) Allow(context.Context, string, string) (int64, bool, error) {
	return s.retry, s.allowed, s.err
}

func newAuthRouter(issuer *helpers.TokenIssuer) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	auth := r.Group("/", AuthMiddleware(issuer, discard))
	auth.GET("/me", func(c *gin.Context) {
		claims := c.MustGet(ClaimsKey).(*helpers.EnhancedClaims)
		c.String(http.StatusOK, claims.UserID)
	})
	auth.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	issuer := helpers.NewTokenIssuer(testSecret, "test", time.Minute)
	r := newAuthRouter(issuer)

	token, _, err := issuer.Issue("u1", helpers.RoleUser, "u1@example.com")
	require.NoError(t, err)

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "not-a-jwt").Code)

	other := helpers.NewTokenIssuer("ffffffffffffffffffffffffffffffff", "test", time.Minute)
	forged, _, err := other.Issue("u1", helpers.RoleAdmin, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", forged).Code)
}

func TestAdminOnly(t *testing.T) {
	issuer := helpers.NewTokenIssuer(testSecret, "test", time.Minute)
	r := newAuthRouter(issuer)

	userToken, _, err := issuer.Issue("u1", helpers.RoleUser, "")
	require.NoError(t, err)
	adminToken, _, err := issuer.Issue("admin@example.com", helpers.RoleAdmin, "admin@example.com")
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", userToken).Code)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", adminToken).Code)
}

func TestRateLimit(t *testing.T) {
	newRouter := func(l Limiter) *gin.Engine {
		r := gin.New()
		r.GET("/login", RateLimit(l, "login", discard), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	w := get(newRouter(stubLimiter{allowed: false, retry: 42}), "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get(newRouter(stubLimiter{allowed: true}), "/login", "").Code)
	assert.Equal(t, http.StatusOK, get(newRouter(stubLimiter{err: errors.New("redis down")}), "/login", "").Code)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(discard))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("logged only"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	w := get(r, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "exploded")

	w = get(r, "/handled", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "Internal server error")
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct {
	adapter.TokenService
	claims *adapter.TokenClaims
}

func (s stubTokens) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if token != "good" {
		return nil, assert.AnError
	}
	return s.claims, nil
}

func newEngine(role entity.Role) *gin.Engine {
	m := NewAuthMiddleware(stubTokens{claims: &adapter.TokenClaims{
		UserID: uuid.New(),
		Email:  "user@example.org",
		Role:   role,
	}})
	r := gin.New()
	r.GET("/open", m.Authenticate(), func(c *gin.Context) {
		role, _ := GetUserRoleFromContext(c)
		c.String(http.StatusOK, string(role))
	})
	r.GET("/admin", m.Authenticate(), m.RequireRole(entity.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := newEngine(entity.RoleVolunteer)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/open", "bad").Code)

	w := do(r, "/open", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "volunteer", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	w := do(newEngine(entity.RoleVolunteer), "/admin", "good")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH-040001")

	w = do(newEngine(entity.RoleAdmin), "/admin", "good")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func limitedEngine(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.GET("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_Memory(t *testing.T) {
	r := limitedEngine(NewRateLimiterWithConfig(nil, 2, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
	w := do(r, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "AUTH-020003")
}

func TestRateLimiter_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := limitedEngine(NewRateLimiterWithConfig(client, 1, time.Minute))

	require.Equal(t, http.StatusOK, do(r, "/login", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/login", "").Code)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	r := limitedEngine(NewRateLimiterWithConfig(client, 1, time.Minute))
	assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := limitedEngine(NewRateLimiterWithConfig(nil, 1, time.Minute).Disable())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
	}
}

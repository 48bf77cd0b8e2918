package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubTokens struct {
	adapter.TokenService
}

func (stubTokens) ValidateAccessToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	if token != "volunteer-token" {
		return nil, assert.AnError
	}
	return &adapter.TokenClaims{UserID: uuid.New(), Email: "volunteer@example.org", Role: entity.RoleVolunteer}, nil
}

func TestCORSConfig(t *testing.T) {
	t.Run("wildcard allows every origin", func(t *testing.T) {
		r := &Router{corsOrigins: []string{"*"}}

		config := r.corsConfig()

		assert.True(t, config.AllowAllOrigins)
		assert.Empty(t, config.AllowOrigins)
		assert.NoError(t, config.Validate())
	})

	t.Run("listed origins only", func(t *testing.T) {
		r := &Router{corsOrigins: []string{"https://pantry.example.org"}}

		config := r.corsConfig()

		assert.False(t, config.AllowAllOrigins)
		assert.Equal(t, []string{"https://pantry.example.org"}, config.AllowOrigins)
		assert.Contains(t, config.ExposeHeaders, "Content-Disposition")
		assert.NoError(t, config.Validate())
	})
}

func TestFileRoutesRequireAuthentication(t *testing.T) {
	dir := t.TempDir()
	receiptDir := filepath.Join(dir, "receipts", "6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11")
	require.NoError(t, os.MkdirAll(receiptDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(receiptDir, "receipt.pdf"), []byte("%PDF-1.4\n"), 0o644))

	r := &Router{
		engine:         gin.New(),
		authMiddleware: middleware.NewAuthMiddleware(stubTokens{}),
		receiptDir:     dir,
	}
	r.setupFileRoutes()

	const target = "/files/receipts/6f1c9a52-3d43-4a8b-9a39-0d2f8f1c7e11/receipt.pdf"
	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"invalid token", "stolen", http.StatusUnauthorized},
		{"volunteer token", "volunteer-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			r.engine.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "%PDF-1.4\n", w.Body.String())
			}
		})
	}
}

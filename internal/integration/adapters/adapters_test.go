package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pantry-ledger/backend/internal/domain/entity"
)

type memoryTokens struct {
	saved       map[string]uuid.UUID
	invalidated map[string]bool
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{saved: map[string]uuid.UUID{}, invalidated: map[string]bool{}}
}

func (m *memoryTokens) SaveRefreshToken(_ context.Context, token string, userID uuid.UUID, _ time.Time) error {
	m.saved[token] = userID
	return nil
}

func (m *memoryTokens) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	_, ok := m.saved[token]
	return ok && !m.invalidated[token], nil
}

func (m *memoryTokens) InvalidateRefreshToken(_ context.Context, token string) error {
	m.invalidated[token] = true
	return nil
}

func (m *memoryTokens) InvalidateAllUserRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for token, id := range m.saved {
		if id == userID {
			m.invalidated[token] = true
		}
	}
	return nil
}

func TestTokenService_RoundTripCarriesRole(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryTokens()
	svc := NewTokenService("secret", 15*time.Minute, time.Hour, repo)
	user := entity.NewUser("admin@pantry.org", "Ana", "hash", entity.RoleAdmin)

	pair, err := svc.GenerateTokenPair(ctx, user, false)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt, 5*time.Second)

	_, err = svc.ValidateAccessToken(ctx, pair.RefreshToken)
	assert.Error(t, err)

	valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, svc.InvalidateRefreshToken(ctx, pair.RefreshToken))
	valid, err = svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestTokenService_RejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	user := entity.NewUser("vol@pantry.org", "Vol", "hash", entity.RoleVolunteer)

	pair, err := NewTokenService("one", time.Minute, time.Hour, newMemoryTokens()).GenerateTokenPair(ctx, user, false)
	require.NoError(t, err)

	_, err = NewTokenService("two", time.Minute, time.Hour, newMemoryTokens()).ValidateAccessToken(ctx, pair.AccessToken)
	assert.Error(t, err)
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.HashPassword("pantry2024")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyPassword(hash, "pantry2024"))
	assert.Error(t, svc.VerifyPassword(hash, "pantry2025"))

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "pantry2024", false},
		{"too short", "p4ss", true},
		{"no digit", "pantrypantry", true},
		{"no letter", "1234567890", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasswordService_NeedsRehashWhenCostChanges(t *testing.T) {
	weak := NewPasswordService(bcrypt.MinCost)
	stronger := NewPasswordService(bcrypt.MinCost + 1)

	hash, err := weak.HashPassword("pantry2024")
	require.NoError(t, err)

	assert.False(t, weak.NeedsRehash(hash))
	assert.True(t, stronger.NeedsRehash(hash))
	assert.False(t, stronger.NeedsRehash("not-a-bcrypt-hash"))
}

func TestTokenService_InvalidateAllRefreshTokens(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryTokens()
	svc := NewTokenService("secret", time.Minute, time.Hour, repo)
	volunteer := entity.NewUser("vol@pantry.org", "Vol", "hash", entity.RoleVolunteer)
	other := entity.NewUser("ana@pantry.org", "Ana", "hash", entity.RoleAdmin)

	kiosk, err := svc.GenerateTokenPair(ctx, volunteer, false)
	require.NoError(t, err)
	phone, err := svc.GenerateTokenPair(ctx, volunteer, true)
	require.NoError(t, err)
	admin, err := svc.GenerateTokenPair(ctx, other, false)
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateAllRefreshTokens(ctx, volunteer.ID))

	for _, token := range []string{kiosk.RefreshToken, phone.RefreshToken} {
		valid, err := svc.IsRefreshTokenValid(ctx, token)
		require.NoError(t, err)
		assert.False(t, valid)
	}
	valid, err := svc.IsRefreshTokenValid(ctx, admin.RefreshToken)
	require.NoError(t, err)
	assert.True(t, valid)
}

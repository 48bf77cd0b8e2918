package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

type memoryUsers struct {
	users map[uuid.UUID]*entity.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[uuid.UUID]*entity.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *entity.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (m *memoryUsers) FindByRole(_ context.Context, role entity.Role) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memoryUsers) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return domainerror.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryUsers) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// plainPasswords stores passwords with a prefix instead of hashing them.
// A "legacy:" prefix stands for a hash made with an outdated cost.
type plainPasswords struct{}

func (plainPasswords) HashPassword(password string) (string, error) { return "hashed:" + password, nil }

func (plainPasswords) VerifyPassword(hashed, password string) error {
	if hashed != "hashed:"+password && hashed != "legacy:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (plainPasswords) NeedsRehash(hashed string) bool { return strings.HasPrefix(hashed, "legacy:") }

func (plainPasswords) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return domainerror.ErrWeakPassword
	}
	return nil
}

// fakeTokens issues tokens that encode the user id.
type fakeTokens struct {
	revoked map[string]bool
	users   map[string]*entity.User
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{revoked: map[string]bool{}, users: map[string]*entity.User{}}
}

func (f *fakeTokens) GenerateTokenPair(_ context.Context, user *entity.User, _ bool) (*adapter.TokenPair, error) {
	refresh := "refresh-" + uuid.NewString()
	f.users[refresh] = user
	return &adapter.TokenPair{AccessToken: "access-" + string(user.Role), RefreshToken: refresh}, nil
}

func (f *fakeTokens) ValidateAccessToken(_ context.Context, _ string) (*adapter.TokenClaims, error) {
	return nil, domainerror.ErrInvalidToken
}

func (f *fakeTokens) ValidateRefreshToken(_ context.Context, token string) (*adapter.TokenClaims, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, domainerror.ErrInvalidToken
	}
	return &adapter.TokenClaims{UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (f *fakeTokens) InvalidateRefreshToken(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeTokens) InvalidateAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for token, u := range f.users {
		if u.ID == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

func (f *fakeTokens) IsRefreshTokenValid(_ context.Context, token string) (bool, error) {
	return !f.revoked[token], nil
}

func authCode(t *testing.T, err error) domainerror.AuthErrorCode {
	t.Helper()
	var authErr *domainerror.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	return authErr.Code
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	users := newMemoryUsers()
	uc := NewRegisterUserUseCase(users, plainPasswords{}, newFakeTokens())

	first, err := uc.Execute(context.Background(), RegisterUserInput{Email: " Ana@Pantry.org ", Name: "Ana", Password: "longenough"})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), RegisterUserInput{Email: "bo@pantry.org", Name: "Bo", Password: "longenough"})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleAdmin, first.User.Role)
	assert.Equal(t, "ana@pantry.org", first.User.Email)
	assert.Equal(t, entity.RoleVolunteer, second.User.Role)
	assert.Equal(t, "access-volunteer", second.AccessToken)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterUserInput
		code  domainerror.AuthErrorCode
	}{
		{name: "bad email", input: RegisterUserInput{Email: "nope", Password: "longenough"}, code: domainerror.ErrCodeInvalidEmail},
		{name: "weak password", input: RegisterUserInput{Email: "a@b.org", Password: "short"}, code: domainerror.ErrCodeWeakPassword},
		{name: "duplicate email", input: RegisterUserInput{Email: "taken@b.org", Password: "longenough"}, code: domainerror.ErrCodeEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemoryUsers()
			users.users[uuid.New()] = &entity.User{ID: uuid.New(), Email: "taken@b.org"}
			uc := NewRegisterUserUseCase(users, plainPasswords{}, newFakeTokens())

			_, err := uc.Execute(context.Background(), tt.input)

			assert.Equal(t, tt.code, authCode(t, err))
		})
	}
}

func TestLogin(t *testing.T) {
	users := newMemoryUsers()
	tokens := newFakeTokens()
	_, err := NewRegisterUserUseCase(users, plainPasswords{}, tokens).Execute(context.Background(),
		RegisterUserInput{Email: "ana@pantry.org", Name: "Ana", Password: "longenough"})
	require.NoError(t, err)
	uc := NewLoginUserUseCase(users, plainPasswords{}, tokens)

	out, err := uc.Execute(context.Background(), LoginUserInput{Email: "ANA@pantry.org", Password: "longenough"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.RefreshToken, "refresh-"))

	_, err = uc.Execute(context.Background(), LoginUserInput{Email: "ana@pantry.org", Password: "wrong-password"})
	assert.Equal(t, domainerror.ErrCodeInvalidCredentials, authCode(t, err))

	_, err = uc.Execute(context.Background(), LoginUserInput{Email: "ghost@pantry.org", Password: "longenough"})
	assert.Equal(t, domainerror.ErrCodeInvalidCredentials, authCode(t, err))
}

func TestRefreshAndLogout(t *testing.T) {
	users := newMemoryUsers()
	tokens := newFakeTokens()
	registered, err := NewRegisterUserUseCase(users, plainPasswords{}, tokens).Execute(context.Background(),
		RegisterUserInput{Email: "ana@pantry.org", Name: "Ana", Password: "longenough"})
	require.NoError(t, err)

	refresh := NewRefreshTokenUseCase(users, tokens)
	out, err := refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, out.RefreshToken)

	_, err = refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: registered.RefreshToken})
	assert.Equal(t, domainerror.ErrCodeInvalidToken, authCode(t, err), "rotated token cannot be reused")

	_, err = NewLogoutUserUseCase(tokens).Execute(context.Background(), LogoutUserInput{RefreshToken: out.RefreshToken})
	require.NoError(t, err)
	_, err = refresh.Execute(context.Background(), RefreshTokenInput{RefreshToken: out.RefreshToken})
	assert.Equal(t, domainerror.ErrCodeInvalidToken, authCode(t, err))
}

func TestLogin_UpgradesOutdatedHash(t *testing.T) {
	users := newMemoryUsers()
	volunteer := entity.NewUser("vol@pantry.org", "Vol", "legacy:longenough", entity.RoleVolunteer)
	require.NoError(t, users.Create(context.Background(), volunteer))
	uc := NewLoginUserUseCase(users, plainPasswords{}, newFakeTokens())

	out, err := uc.Execute(context.Background(), LoginUserInput{Email: "vol@pantry.org", Password: "longenough"})
	require.NoError(t, err)

	assert.Equal(t, "access-volunteer", out.AccessToken)
	assert.Equal(t, "hashed:longenough", users.users[volunteer.ID].PasswordHash)

	_, err = uc.Execute(context.Background(), LoginUserInput{Email: "vol@pantry.org", Password: "longenough"})
	assert.NoError(t, err, "upgraded hash still verifies")
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	volunteer := entity.NewUser("vol@pantry.org", "Vol", "hashed:longenough", entity.RoleVolunteer)

	t.Run("ends only the given session", func(t *testing.T) {
		tokens := newFakeTokens()
		kiosk, _ := tokens.GenerateTokenPair(ctx, volunteer, false)
		phone, _ := tokens.GenerateTokenPair(ctx, volunteer, false)

		out, err := NewLogoutUserUseCase(tokens).Execute(ctx, LogoutUserInput{RefreshToken: kiosk.RefreshToken})
		require.NoError(t, err)

		assert.Equal(t, "Signed out", out.Message)
		assert.True(t, tokens.revoked[kiosk.RefreshToken])
		assert.False(t, tokens.revoked[phone.RefreshToken])
	})

	t.Run("all devices ends every session of the user", func(t *testing.T) {
		tokens := newFakeTokens()
		kiosk, _ := tokens.GenerateTokenPair(ctx, volunteer, false)
		phone, _ := tokens.GenerateTokenPair(ctx, volunteer, false)
		admin, _ := tokens.GenerateTokenPair(ctx, entity.NewUser("ana@pantry.org", "Ana", "x", entity.RoleAdmin), false)

		out, err := NewLogoutUserUseCase(tokens).Execute(ctx, LogoutUserInput{RefreshToken: phone.RefreshToken, AllDevices: true})
		require.NoError(t, err)

		assert.Equal(t, "Signed out of every device", out.Message)
		assert.True(t, tokens.revoked[kiosk.RefreshToken])
		assert.True(t, tokens.revoked[phone.RefreshToken])
		assert.False(t, tokens.revoked[admin.RefreshToken])
	})

	t.Run("unknown token still succeeds", func(t *testing.T) {
		tokens := newFakeTokens()

		out, err := NewLogoutUserUseCase(tokens).Execute(ctx, LogoutUserInput{RefreshToken: "forged", AllDevices: true})
		require.NoError(t, err)

		assert.Equal(t, "Signed out", out.Message)
		assert.Empty(t, tokens.revoked)
	})
}

func TestGetCurrentUser(t *testing.T) {
	users := newMemoryUsers()
	user := entity.NewUser("me@example.org", "Me", "hash", entity.RoleVolunteer)
	require.NoError(t, users.Create(context.Background(), user))
	uc := NewGetCurrentUserUseCase(users)

	got, err := uc.Execute(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.org", got.Email)

	_, err = uc.Execute(context.Background(), uuid.New())
	var authErr *domainerror.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, domainerror.ErrCodeUserNotFound, authErr.Code)
}

// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pantry-ledger/backend/internal/application/adapter"
	"github.com/pantry-ledger/backend/internal/domain/entity"
	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
)

// LoginUserInput carries the credentials of a staff member or volunteer.
type LoginUserInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// LoginUserOutput is the token pair issued for the signed-in user.
type LoginUserOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// LoginUserUseCase signs a user in with email and password.
type LoginUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewLoginUserUseCase creates a new LoginUserUseCase instance.
func NewLoginUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *LoginUserUseCase {
	return &LoginUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute checks the credentials and issues tokens carrying the user's role.
// Unknown addresses and wrong passwords fail with the same error.
// A hash made with an outdated bcrypt cost is upgraded after a successful check.
func (uc *LoginUserUseCase) Execute(ctx context.Context, input LoginUserInput) (*LoginUserOutput, error) {
	user, err := uc.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, invalidCredentials()
	}
	if err := uc.passwordService.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		slog.Info("Rejected sign-in", "userID", user.ID, "role", user.Role)
		return nil, invalidCredentials()
	}

	if uc.passwordService.NeedsRehash(user.PasswordHash) {
		uc.upgradeHash(ctx, user, input.Password)
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, user, input.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	slog.Info("User signed in", "userID", user.ID, "role", user.Role, "rememberMe", input.RememberMe)
	return &LoginUserOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         user,
	}, nil
}

// upgradeHash never fails the sign-in; the old hash stays valid.
func (uc *LoginUserUseCase) upgradeHash(ctx context.Context, user *entity.User, password string) {
	hash, err := uc.passwordService.HashPassword(password)
	if err == nil {
		err = uc.userRepo.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		slog.Warn("Failed to upgrade password hash", "userID", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
}

func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)
}

package auth

import (
	"context"
	"log/slog"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

const (
	signedOutMessage           = "Signed out"
	signedOutEverywhereMessage = "Signed out of every device"
)

// LogoutUserInput names the session to end. AllDevices also ends the
// user's other sessions, such as a forgotten sign-in on the pantry kiosk.
type LogoutUserInput struct {
	RefreshToken string
	AllDevices   bool
}

// LogoutUserOutput represents the output of user logout.
type LogoutUserOutput struct {
	Message string
}

// LogoutUserUseCase revokes refresh tokens.
type LogoutUserUseCase struct {
	tokenService adapter.TokenService
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		tokenService: tokenService,
	}
}

// Execute always reports success. A token that is expired, forged or already
// revoked has nothing left to end, and revocation failures are only logged.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	claims, err := uc.tokenService.ValidateRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return &LogoutUserOutput{Message: signedOutMessage}, nil
	}

	if input.AllDevices {
		if err := uc.tokenService.InvalidateAllRefreshTokens(ctx, claims.UserID); err != nil {
			slog.Warn("Failed to revoke sessions", "userID", claims.UserID, "error", err)
		}
		slog.Info("User signed out everywhere", "userID", claims.UserID, "role", claims.Role)
		return &LogoutUserOutput{Message: signedOutEverywhereMessage}, nil
	}

	if err := uc.tokenService.InvalidateRefreshToken(ctx, input.RefreshToken); err != nil {
		slog.Warn("Failed to revoke session", "userID", claims.UserID, "error", err)
	}
	return &LogoutUserOutput{Message: signedOutMessage}, nil
}

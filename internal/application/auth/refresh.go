package auth

import (
	"context"

	"github.com/ticketline/auth-service/internal/domain"
)

// Refresh rotates a refresh token and issues a new access token.
// Rotation rule: old refresh token becomes invalid once used successfully.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	if refreshToken == "" {
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	userID, err := s.sessions.GetUserIDByRefreshToken(ctx, refreshToken)
	if err != nil {
		// Hide details: treat as invalid
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// If user is gone, treat as invalid session
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	if u.Locked {
		return AuthTokens{}, domain.ErrAccountLocked()
	}

	newRefresh, err := s.sessions.RotateRefreshToken(ctx, refreshToken, s.refreshTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrRefreshTokenInvalid()
	}

	access, err := s.signer.SignAccessToken(u.ID, u.Role, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: newRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Logout revokes the current refresh token (single session logout).
// If the refresh token is missing/empty, it becomes a no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.RevokeRefreshToken(ctx, refreshToken)
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

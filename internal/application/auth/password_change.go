package auth

import (
	"context"

	"github.com/ticketline/auth-service/internal/domain"
)

// PasswordChange changes password for an authenticated user.
func (s *Service) PasswordChange(ctx context.Context, userID, oldPassword, newPassword string) error {
	if userID == "" {
		return domain.ErrTokenMissing()
	}
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidField("password", "empty")
	}
	if len(newPassword) < 8 {
		return domain.ErrWeakPassword("min length 8")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(u.PasswordHash, oldPassword); err != nil {
		return domain.ErrInvalidCredentials()
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	// Revoke all sessions after a password change.
	_ = s.sessions.RevokeAll(ctx, userID)
	s.audit("password_changed", map[string]string{"user_id": userID})
	return nil
}

package auth

import (
	"context"
	"strconv"
	"strings"

	"github.com/ticketline/auth-service/internal/domain"
	"github.com/ticketline/auth-service/internal/logger"
	"github.com/ticketline/auth-service/internal/metrics"
)

// Token lifecycle: Issued -> (Consumed | Expired). Both ends delete the row;
// consumption deletes synchronously, expiry is cleaned by sweepExpired the
// next time either public operation runs.

// PasswordResetRequest issues a one-time token and publishes an email event.
// IMPORTANT: non-enumerating. The caller observes the same outcome whether or
// not the email is registered and whether or not the email was delivered.
// Only a failed token insert propagates.
func (s *Service) PasswordResetRequest(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrMissingField("email")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Unknown email: succeed with no side effect. Infrastructure errors
		// are hidden behind the same uniform response; log and move on.
		if !domain.Is(err, "user_not_found") {
			logger.WithCtx(ctx).Warn().Err(err).Msg("reset request user lookup failed")
		}
		return nil
	}

	s.sweepExpired(ctx)

	token, err := NewResetToken()
	if err != nil {
		return domain.ErrRandomFailed(err)
	}

	expiresAt := s.clock.Now().Add(s.passwordResetTTL)
	if err := s.resetTokens.Save(ctx, u.ID, token, expiresAt); err != nil {
		return err
	}
	metrics.ResetTokensIssuedTotal.Inc()
	s.audit("password_reset_requested", map[string]string{"user_id": u.ID})

	evt := PasswordResetEvent{
		UserID: u.ID,
		Email:  u.Email,
		URL:    s.passwordResetBaseURL + token,
	}
	if err := s.pub.PublishPasswordReset(ctx, evt); err != nil {
		// Best-effort: surfacing delivery failures here would leak whether
		// the account exists.
		logger.WithCtx(ctx).Warn().Err(err).Str("user_id", u.ID).Msg("reset email publish failed")
	}
	return nil
}

// PasswordResetValidate checks whether a reset token is currently redeemable
// without consuming it (used by the frontend reset form on load).
func (s *Service) PasswordResetValidate(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrMissingField("token")
	}
	rt, err := s.resetTokens.FindValid(ctx, token, s.clock.Now())
	if err != nil {
		return err
	}
	if rt == nil {
		return domain.ErrInvalidOrExpiredToken()
	}
	return nil
}

// PasswordResetConfirm consumes the token and sets a new password.
// The token is deleted only after the password update is confirmed, so a
// failed update stays retryable with the same link.
func (s *Service) PasswordResetConfirm(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return domain.ErrMissingField("token")
	}
	if newPassword == "" {
		return domain.ErrMissingField("new_password")
	}
	if len(newPassword) < 8 {
		return domain.ErrWeakPassword("min length 8")
	}

	rt, err := s.resetTokens.FindValid(ctx, token, s.clock.Now())
	if err != nil {
		return err
	}
	if rt == nil {
		return domain.ErrInvalidOrExpiredToken()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	if err := s.users.UpdatePasswordHash(ctx, rt.UserID, hash); err != nil {
		return err
	}

	// Single-use enforcement.
	if err := s.resetTokens.DeleteByToken(ctx, rt.Token); err != nil {
		return err
	}
	metrics.ResetTokensConsumedTotal.Inc()
	s.audit("password_reset_confirmed", map[string]string{"user_id": rt.UserID})

	// A redeemed reset token means the old password may be compromised.
	_ = s.sessions.RevokeAll(ctx, rt.UserID)

	s.sweepExpired(ctx)
	return nil
}

// sweepExpired opportunistically purges expired tokens store-wide.
// Failures are logged, never propagated: expired tokens are already unusable,
// delayed deletion only costs storage.
func (s *Service) sweepExpired(ctx context.Context) {
	n, err := s.resetTokens.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("reset token sweep failed")
		return
	}
	if n > 0 {
		metrics.ResetTokensSweptTotal.Add(float64(n))
		s.audit("reset_tokens_swept", map[string]string{"count": strconv.FormatInt(n, 10)})
		logger.WithCtx(ctx).Debug().Int64("count", n).Msg("expired reset tokens swept")
	}
}

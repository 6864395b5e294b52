package auth

import (
	"context"
	"strings"

	"github.com/ticketline/auth-service/internal/domain"
	"github.com/ticketline/auth-service/internal/metrics"
)

// Login authenticates a user and issues tokens.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if u.Locked {
		return LoginResult{}, domain.ErrAccountLocked()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	toks, err := s.issueTokens(ctx, u.ID, u.Role)
	if err != nil {
		return LoginResult{}, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return LoginResult{User: u, Tokens: toks}, nil
}

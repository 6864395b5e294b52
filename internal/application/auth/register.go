package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ticketline/auth-service/internal/domain"
	"github.com/ticketline/auth-service/internal/metrics"
)

func (s *Service) Register(ctx context.Context, email, password string) (RegisterResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return RegisterResult{}, domain.ErrInvalidField("email/password", "empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	toks, err := s.issueTokens(ctx, created.ID, created.Role)
	if err != nil {
		return RegisterResult{}, err
	}

	metrics.RegistrationsTotal.Inc()
	s.audit("user_registered", map[string]string{"user_id": created.ID})

	return RegisterResult{User: created, Tokens: toks}, nil
}

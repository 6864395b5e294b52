package auth

import (
	"context"
	"time"

	"github.com/ticketline/auth-service/internal/domain"
)

type Service struct {
	users       UserRepo
	resetTokens ResetTokenStore
	hasher      PasswordHasher
	signer      TokenSigner
	sessions    SessionStore
	pub         EventPublisher
	clock       Clock

	accessTTL  time.Duration
	refreshTTL time.Duration

	// URL used to build links sent via email-service,
	// e.g. https://frontend/reset-password?token=
	passwordResetBaseURL string
	passwordResetTTL     time.Duration

	audit func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL             time.Duration
	RefreshTTL            time.Duration
	PasswordResetBaseURL  string
	PasswordResetTokenTTL time.Duration
}

func NewService(
	users UserRepo,
	resetTokens ResetTokenStore,
	hasher PasswordHasher,
	signer TokenSigner,
	sessions SessionStore,
	pub EventPublisher,
	clock Clock,
	cfg Config,
) *Service {
	resetTTL := cfg.PasswordResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = 24 * time.Hour
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{
		users:       users,
		resetTokens: resetTokens,
		hasher:      hasher,
		signer:      signer,
		sessions:    sessions,
		pub:         pub,
		clock:       clock,
		audit:       func(string, map[string]string) {},

		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,

		passwordResetBaseURL: cfg.PasswordResetBaseURL,
		passwordResetTTL:     resetTTL,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// systemClock is the production Clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// AuthTokens is the common token output for handlers/DTO mapping.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string // handlers put this in an HttpOnly cookie
	ExpiresIn    int64  // seconds
	TokenType    string // "Bearer"
}

type RegisterResult struct {
	User   domain.User
	Tokens AuthTokens
}

type LoginResult struct {
	User   domain.User
	Tokens AuthTokens
}

// issueTokens issues an access token + refresh token for a user.
func (s *Service) issueTokens(ctx context.Context, userID, role string) (AuthTokens, error) {
	access, err := s.signer.SignAccessToken(userID, role, s.accessTTL)
	if err != nil {
		return AuthTokens{}, domain.ErrTokenSignFailed(err)
	}

	refresh, err := s.sessions.CreateRefreshToken(ctx, userID, s.refreshTTL)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

package auth

import (
	"context"
	"time"

	"github.com/ticketline/auth-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

/*
ResetTokenStore
---------------
Persistent storage for single-use password reset tokens.
Backed by Postgres in production, memory in tests.
*/
type ResetTokenStore interface {
	// Save inserts a new token row. Constraint violations (duplicate token)
	// surface as storage errors; they are never swallowed.
	Save(ctx context.Context, userID, token string, expiresAt time.Time) error

	// FindValid returns the row only while expires_at > now. Missing and
	// expired tokens are indistinguishable: both return (nil, nil).
	FindValid(ctx context.Context, token string, now time.Time) (*domain.ResetToken, error)

	// DeleteByToken is idempotent; deleting a nonexistent token is not an error.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired bulk-deletes rows with expires_at <= now and returns the
	// number removed. Zero matches is not an error.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
SessionStore
------------
Refresh token / session management.
Backed by Redis or memory.
*/
type SessionStore interface {
	CreateRefreshToken(ctx context.Context, userID string, ttl time.Duration) (token string, err error)
	RotateRefreshToken(ctx context.Context, oldToken string, ttl time.Duration) (newToken string, err error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID string) error
	GetUserIDByRefreshToken(ctx context.Context, token string) (string, error)
}

/*
EventPublisher
--------------
Publishes events to RabbitMQ.
Email-service consumes these and sends the actual mail.
Auth-service does NOT send emails directly.
*/
type EventPublisher interface {
	PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error
}

// PasswordResetEvent is the strongly typed MQ payload. Email-service only
// needs the address and the ready-made link; it never interprets the token.
type PasswordResetEvent struct {
	UserID string
	Email  string
	URL    string
}

/*
Clock
-----
Injectable time source so expiry and sweep behavior can be tested
deterministically.
*/
type Clock interface {
	Now() time.Time
}

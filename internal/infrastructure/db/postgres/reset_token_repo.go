package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticketline/auth-service/internal/domain"
)

// ResetTokenRepo persists password reset tokens.
//
// Schema:
//
//	CREATE TABLE password_reset_tokens (
//	    id         UUID PRIMARY KEY,
//	    user_id    UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
//	    token      TEXT NOT NULL UNIQUE,
//	    expires_at TIMESTAMPTZ NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// FindValid + the later DeleteByToken are not wrapped in a transaction, so two
// concurrent confirms racing on the same token can both pass validation before
// either deletes the row.
type ResetTokenRepo struct {
	db *sql.DB
}

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo {
	return &ResetTokenRepo{db: db}
}

func (r *ResetTokenRepo) Save(ctx context.Context, userID, token string, expiresAt time.Time) error {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if token == "" {
		return domain.ErrMissingField("token")
	}
	if expiresAt.IsZero() {
		return domain.ErrMissingField("expires_at")
	}

	const q = `
INSERT INTO password_reset_tokens (id, user_id, token, expires_at)
VALUES ($1,$2,$3,$4);
`
	// A duplicate token is astronomically unlikely at 256 bits of entropy,
	// but a constraint violation must surface, not be swallowed.
	if _, err := r.db.ExecContext(ctx, q, uuid.NewString(), userID, token, expiresAt); err != nil {
		return domain.ErrStorage(err)
	}
	return nil
}

func (r *ResetTokenRepo) FindValid(ctx context.Context, token string, now time.Time) (*domain.ResetToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	const q = `
SELECT id, user_id, token, expires_at, created_at
FROM password_reset_tokens
WHERE token = $1 AND expires_at > $2
LIMIT 1;
`
	var rt domain.ResetToken
	err := r.db.QueryRowContext(ctx, q, token, now).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
	)
	if err != nil {
		// Expired rows that have not been swept yet look exactly like rows
		// that never existed.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.ErrStorage(err)
	}
	return &rt, nil
}

func (r *ResetTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	const q = `
DELETE FROM password_reset_tokens
WHERE token = $1;
`
	// Idempotent: zero rows affected is fine.
	if _, err := r.db.ExecContext(ctx, q, token); err != nil {
		return domain.ErrStorage(err)
	}
	return nil
}

func (r *ResetTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const q = `
DELETE FROM password_reset_tokens
WHERE expires_at <= $1;
`
	res, err := r.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, domain.ErrStorage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, domain.ErrStorage(err)
	}
	return n, nil
}

package postgres

import (
	"time"

	"github.com/ticketline/auth-service/internal/domain"
)

// userRow mirrors the users table.
type userRow struct {
	ID            string
	Email         string
	PasswordHash  string
	Role          string
	EmailVerified bool
	Locked        bool
	CreatedAt     time.Time
}

func toDomainUser(ur userRow) domain.User {
	return domain.User{
		ID:            ur.ID,
		Email:         ur.Email,
		PasswordHash:  ur.PasswordHash,
		Role:          ur.Role,
		EmailVerified: ur.EmailVerified,
		Locked:        ur.Locked,
		CreatedAt:     ur.CreatedAt,
	}
}

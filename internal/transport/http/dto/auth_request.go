package dto

import (
	"strings"

	"github.com/ticketline/auth-service/internal/domain"
)

// -------- Core auth --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validateStruct(r)
}

// Refresh token travels in an HttpOnly cookie, so the body is empty.
type RefreshRequest struct{}

type LogoutRequest struct{}

// -------- Password reset --------

// Step A: request reset. The server always returns 202 to avoid enumeration.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (r *PasswordResetRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validateStruct(r)
}

// Step B: confirm reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128,password_strength"`
}

func (r *PasswordResetConfirmRequest) Validate() error {
	return validateStruct(r)
}

// Token validity probe (GET /password/reset/validate?token=...).
type PasswordResetValidateQuery struct {
	Token string `json:"-"` // filled from query param, not JSON
}

func (q *PasswordResetValidateQuery) Validate() error {
	if q.Token == "" {
		return domain.ErrMissingField("token")
	}
	return nil
}

// -------- Password change (authenticated) --------

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128,password_strength"`
}

func (r *PasswordChangeRequest) Validate() error {
	return validateStruct(r)
}

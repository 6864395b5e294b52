package dto

import (
	"github.com/ticketline/auth-service/internal/application/auth"
	"github.com/ticketline/auth-service/internal/domain"
)

type UserView struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	Locked        bool   `json:"locked"`
}

type TokensView struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type AuthData struct {
	User   UserView   `json:"user"`
	Tokens TokensView `json:"tokens"`
}

type RefreshData struct {
	Tokens TokensView `json:"tokens"`
}

type MeData struct {
	User UserView `json:"user"`
}

// StatusData is the uniform body for the fire-and-forget endpoints
// (reset request/confirm), which never reveal internal outcomes.
type StatusData struct {
	Status string `json:"status"`
}

func NewUserView(u domain.User) UserView {
	return UserView{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		Locked:        u.Locked,
	}
}

func NewTokensView(t auth.AuthTokens) TokensView {
	return TokensView{
		AccessToken: t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/ticketline/auth-service/internal/application/auth"
	"github.com/ticketline/auth-service/internal/domain"
	"github.com/ticketline/auth-service/internal/transport/http/response"
)

// Auth rejects requests without a valid Bearer access token and stores
// the authenticated user on the request context.
func Auth(signer auth.TokenSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				response.WriteError(w, r, domain.ErrTokenMissing())
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := signer.VerifyAccessToken(raw)
			if err != nil {
				response.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Role)))
		})
	}
}

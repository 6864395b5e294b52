package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appctx "github.com/ticketline/auth-service/internal/pkg/context"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID propagates or assigns a request id and exposes it on both the
// response header and the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)

		ctx := appctx.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

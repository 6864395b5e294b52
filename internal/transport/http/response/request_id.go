package response

import (
	"net/http"

	appctx "github.com/ticketline/auth-service/internal/pkg/context"
)

// RequestIDFromContext extracts the request id set by the request-id middleware.
func RequestIDFromContext(r *http.Request) string {
	if id, ok := appctx.RequestID(r.Context()); ok {
		return id
	}
	return ""
}

package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ticketline/auth-service/internal/domain"
)

// DecodeJSON parses the request body into dst. The body must hold exactly one
// JSON value; concatenated documents ({}{}) are rejected since they usually
// signal a confused or malicious client.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidJSON(err)
	}

	switch err := dec.Decode(&struct{}{}); {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return domain.ErrInvalidJSON(err)
	default:
		return domain.ErrInvalidJSON(errors.New("multiple JSON values"))
	}
}

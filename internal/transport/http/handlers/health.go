package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/ticketline/auth-service/internal/transport/http/response"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness: process is up.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Readiness: dependencies reachable. Degrades to 503 when the database
// cannot be pinged.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"db": "ok"}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			checks["db"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	} else {
		checks["db"] = "disabled"
	}

	response.WriteJSON(w, status, response.Envelope{Data: checks})
}

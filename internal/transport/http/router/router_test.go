package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ticketline/auth-service/internal/application/auth"
	"github.com/ticketline/auth-service/internal/infrastructure/memory"
	infraredis "github.com/ticketline/auth-service/internal/infrastructure/redis"
	"github.com/ticketline/auth-service/internal/infrastructure/security"
	"github.com/ticketline/auth-service/internal/transport/http/handlers"
)

func newRouterForTest(t *testing.T) http.Handler {
	t.Helper()

	signer := security.NewJWTSigner("test-secret", "auth-test")
	svc := auth.NewService(
		memory.NewUserRepo(),
		memory.NewResetTokenStore(),
		security.NewBcryptHasher(bcrypt.MinCost),
		signer,
		memory.NewSessionStore(),
		memory.NewNoopPublisher(),
		nil,
		auth.Config{
			AccessTTL:             15 * time.Minute,
			RefreshTTL:            7 * 24 * time.Hour,
			PasswordResetBaseURL:  "https://fe/reset?token=",
			PasswordResetTokenTTL: 24 * time.Hour,
		},
	)

	return New(Options{
		AuthHandler:   handlers.NewAuthHandler(svc, 7*24*time.Hour, false),
		HealthHandler: handlers.NewHealthHandler(nil),
		Signer:        signer,
		Limiter:       infraredis.NewFixedWindowLimiter(nil), // fail-open
	})
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_MetricsExposed(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "auth_service_") {
		t.Fatalf("expected service metrics in exposition")
	}
}

func TestRouter_RegisterRoute_Validates(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/v1/register", strings.NewReader(`{"email":"bad"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_PasswordResetRequest_Accepted(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/v1/password/reset/request",
		strings.NewReader(`{"email":"ghost@x.com"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/auth/v1/me"},
		{http.MethodPost, "/auth/v1/password/change"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	r := newRouterForTest(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

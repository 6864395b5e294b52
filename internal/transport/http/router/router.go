package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ticketline/auth-service/internal/application/auth"
	infraredis "github.com/ticketline/auth-service/internal/infrastructure/redis"
	"github.com/ticketline/auth-service/internal/transport/http/handlers"
	"github.com/ticketline/auth-service/internal/transport/http/middleware"
)

type Options struct {
	AuthHandler   *handlers.AuthHandler
	HealthHandler *handlers.HealthHandler
	Signer        auth.TokenSigner
	Limiter       *infraredis.FixedWindowLimiter

	// Requests per minute per IP across the whole service.
	GlobalRPM int
}

func New(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	rpm := opts.GlobalRPM
	if rpm <= 0 {
		rpm = 300
	}
	r.Use(httprate.LimitByIP(rpm, time.Minute))

	r.Get("/healthz", opts.HealthHandler.Healthz)
	r.Get("/readyz", opts.HealthHandler.Readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(opts.Limiter, "register", 10, time.Minute)).
			Post("/register", opts.AuthHandler.Register)
		r.With(middleware.RateLimit(opts.Limiter, "login", 20, time.Minute)).
			Post("/login", opts.AuthHandler.Login)
		r.Post("/refresh", opts.AuthHandler.Refresh)
		r.Post("/logout", opts.AuthHandler.Logout)

		// Reset request gets the tightest budget: it sends email and
		// writes a token row per call.
		r.With(middleware.RateLimit(opts.Limiter, "password_reset", 5, 15*time.Minute)).
			Post("/password/reset/request", opts.AuthHandler.PasswordResetRequest)
		r.Get("/password/reset/validate", opts.AuthHandler.PasswordResetValidate)
		r.With(middleware.RateLimit(opts.Limiter, "password_reset_confirm", 10, 15*time.Minute)).
			Post("/password/reset/confirm", opts.AuthHandler.PasswordResetConfirm)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(opts.Signer))
			r.Get("/me", opts.AuthHandler.Me)
			r.Post("/password/change", opts.AuthHandler.PasswordChange)
		})
	})

	return r
}

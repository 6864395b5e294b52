package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/ticketline/auth-service/internal/application/auth"
	"github.com/ticketline/auth-service/internal/config"
	"github.com/ticketline/auth-service/internal/infrastructure/db/postgres"
	"github.com/ticketline/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/ticketline/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/ticketline/auth-service/internal/infrastructure/redis"
	"github.com/ticketline/auth-service/internal/infrastructure/security"
	"github.com/ticketline/auth-service/internal/logger"
	http_handlers "github.com/ticketline/auth-service/internal/transport/http/handlers"
	"github.com/ticketline/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (DBCloser, error)

	NewRedis func(addr string) RedisClient

	NewPublisher func(rabbitURL string) (Publisher, error)

	NewRouter func(router.Options) http.Handler
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface{}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	sqlDB, ok := db.(*sql.DB)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
	}

	// 2) repos
	userRepo := postgres.NewUserRepo(sqlDB)
	resetTokens := postgres.NewResetTokenRepo(sqlDB)

	// 3) redis (best-effort; memory fallback in dev keeps the service usable)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory sessions")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var sessionStore auth.SessionStore
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		rc := redisCli.(*redis.Client)
		sessionStore = redis.NewSessionStore(rc)
		fwLimiter = redis.NewFixedWindowLimiter(rc)
	} else {
		sessionStore = memory.NewSessionStore()
		fwLimiter = redis.NewFixedWindowLimiter(nil)
	}

	// 4) publisher
	var pub auth.EventPublisher
	rawPub, err := deps.NewPublisher(cfg.RabbitURL)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
			rawPub = memory.NewNoopPublisher()
		} else {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}
	pub, ok = rawPub.(auth.EventPublisher)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: publisher does not implement auth.EventPublisher")
	}
	if c, ok := rawPub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(security.DefaultBcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 6) service
	authSvc := auth.NewService(
		userRepo,
		resetTokens,
		hasher,
		signer,
		sessionStore,
		pub,
		nil, // system clock
		auth.Config{
			AccessTTL:             cfg.AccessTokenTTL,
			RefreshTTL:            cfg.RefreshTokenTTL,
			PasswordResetBaseURL:  cfg.PasswordResetBaseURL,
			PasswordResetTokenTTL: cfg.PasswordResetTokenTTL,
		},
	)

	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 7) handlers + router
	secureCookies := cfg.Env != "dev"

	authH := http_handlers.NewAuthHandler(authSvc, cfg.RefreshTokenTTL, secureCookies)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	mux := deps.NewRouter(router.Options{
		AuthHandler:   authH,
		HealthHandler: healthH,
		Signer:        signer,
		Limiter:       fwLimiter,
		GlobalRPM:     cfg.GlobalRPM,
	})

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string) (DBCloser, error) {
			return config.NewDB(addr)
		},
		NewRedis: func(addr string) RedisClient {
			return redis.New(addr, "", 0)
		},
		NewPublisher: func(url string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appctx "github.com/ticketline/auth-service/internal/pkg/context"
)

var Logger zerolog.Logger

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures the package logger from LOG_LEVEL and LOG_FORMAT
// ("json" or "console", console by default) and mirrors it into the zerolog
// global so third-party hooks share the same sink.
func InitWithWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	if envOr("LOG_FORMAT", "console") == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	Logger = zerolog.New(w).With().Timestamp().Logger().Level(level)
	zlog.Logger = Logger
}

// WithCtx returns a request-scoped logger carrying the request_id when the
// request-id middleware has put one on the context.
func WithCtx(ctx context.Context) *zerolog.Logger {
	l := Logger
	if id, ok := appctx.RequestID(ctx); ok {
		l = l.With().Str("request_id", id).Logger()
	}
	return &l
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

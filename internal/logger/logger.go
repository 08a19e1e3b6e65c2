// internal/logger/logger.go
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	LoggerKey    ctxKey = "logger"
	UserIDKey    ctxKey = "user_id"
	TenantIDKey  ctxKey = "tenant_id"
)

var globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process-wide logger. Unknown levels fall back to info.
func Init(level string, jsonFormat bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var output io.Writer = os.Stdout
	if !jsonFormat {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	globalLogger = zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "project-hub-api").
		Logger()
}

// SetOutput replaces the global logger's writer. Used by tests.
func SetOutput(w io.Writer) {
	globalLogger = globalLogger.Output(w)
}

func Global() *zerolog.Logger {
	return &globalLogger
}

// Get returns the request-scoped logger stored in ctx, or the global one.
func Get(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	return &globalLogger
}

func FromGin(c *gin.Context) *zerolog.Logger {
	return Get(c.Request.Context())
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := globalLogger.With().Str("request_id", requestID).Logger()
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	ctx = context.WithValue(ctx, LoggerKey, &l)
	return ctx
}

// WithUser attaches the authenticated user and tenant to ctx and its logger.
func WithUser(ctx context.Context, userID, tenantID string) context.Context {
	l := Get(ctx).With().
		Str("user_id", userID).
		Str("tenant_id", tenantID).
		Logger()
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, TenantIDKey, tenantID)
	ctx = context.WithValue(ctx, LoggerKey, &l)
	return ctx
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

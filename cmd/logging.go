package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKeyLogger struct{}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger{}, logger)
}

// LogCtx returns the request-scoped logger, or a no-op logger outside a
// request.
func LogCtx(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(ctxKeyLogger{}).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

func LogR(r *http.Request) *zap.Logger {
	return LogCtx(r.Context())
}

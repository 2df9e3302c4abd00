package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Logger records one line per request with duration and outcome.
func Logger(l *zap.Logger) Middleware {
	return func(ctx *Context, next Next) error {
		l.Debug("request started",
			zap.String("request_id", ctx.ID),
			zap.String("method", ctx.Method),
			zap.String("path", ctx.Path))

		err := next()

		fields := []zap.Field{
			zap.String("request_id", ctx.ID),
			zap.String("method", ctx.Method),
			zap.String("path", ctx.Path),
			zap.Duration("duration", time.Since(ctx.Start)),
		}
		if err != nil {
			l.Warn("request failed", append(fields, zap.Error(err))...)
		} else {
			l.Info("request completed", fields...)
		}
		return err
	}
}

// Recoverer converts a panic anywhere later in the chain into an error, so
// an error-handling middleware registered before it can render a failure
// surface instead of the process dying.
func Recoverer(l *zap.Logger) Middleware {
	return func(ctx *Context, next Next) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("request panicked",
					zap.String("request_id", ctx.ID),
					zap.String("path", ctx.Path),
					zap.Any("panic", rec))
				err = fmt.Errorf("pipeline: panic in request handling: %v", rec)
			}
		}()
		return next()
	}
}

// ErrorHandler is the explicit catch point the pipeline itself never
// provides: it runs the rest of the chain, and on error hands the request to
// render for a user-visible failure surface, swallowing the error.
func ErrorHandler(l *zap.Logger, render func(ctx *Context, err error)) Middleware {
	return func(ctx *Context, next Next) error {
		err := next()
		if err == nil {
			return nil
		}
		l.Error("request error",
			zap.String("request_id", ctx.ID),
			zap.String("path", ctx.Path),
			zap.Error(err))
		if render != nil {
			render(ctx, err)
		}
		return nil
	}
}

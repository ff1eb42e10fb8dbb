package httpapi

import (
	"context"
	"errors"
	"time"
)

// errShuttingDown is the cancel cause of handler contexts at shutdown.
var errShuttingDown = errors.New("server shutting down")

// shutdownCtx ends when the server shuts down. Background until SetBaseContext.
var shutdownCtx = context.Background()

// SetBaseContext installs the context whose end cancels in-flight setups
// and runs. Nil restores Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx = ctx
}

// untilShutdown derives a context from parent that is also canceled, with
// errShuttingDown as cause, when the server shuts down.
func untilShutdown(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	stop := context.AfterFunc(shutdownCtx, func() { cancel(errShuttingDown) })
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

// setupContext keeps the request's values (request id) but not its
// cancellation: a setup outlives a disconnected client, only shutdown stops it.
func setupContext(reqCtx context.Context) (context.Context, context.CancelFunc) {
	return untilShutdown(context.WithoutCancel(reqCtx))
}

// handlerContext bounds a run by the request, shutdown and, when
// timeoutSec > 0, a deadline.
func handlerContext(reqCtx context.Context, timeoutSec int64) (context.Context, context.CancelFunc) {
	ctx, cancel := untilShutdown(reqCtx)
	if timeoutSec <= 0 {
		return ctx, cancel
	}
	tctx, tcancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	return tctx, func() {
		tcancel()
		cancel()
	}
}

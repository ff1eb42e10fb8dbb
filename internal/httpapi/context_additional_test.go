package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestSetBaseContext_NilResetsToBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	SetBaseContext(ctx)
	// nolint:staticcheck // SA1012: nil must fall back to Background
	SetBaseContext(nil)
	if shutdownCtx != context.Background() {
		t.Fatal("expected Background after nil")
	}
}

func TestSetupContext_SurvivesClientButNotShutdown(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	SetBaseContext(base)
	defer SetBaseContext(nil)

	req, cancelReq := context.WithCancel(context.WithValue(context.Background(), middleware.RequestIDKey, "req-1"))
	ctx, cancel := setupContext(req)
	defer cancel()
	if middleware.GetReqID(ctx) != "req-1" {
		t.Fatalf("request id lost: %q", middleware.GetReqID(ctx))
	}
	cancelReq()
	select {
	case <-ctx.Done():
		t.Fatal("setup context canceled with the client")
	case <-time.After(50 * time.Millisecond):
	}
	cancelBase()
	select {
	case <-ctx.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("setup context not canceled on shutdown")
	}
	if !errors.Is(context.Cause(ctx), errShuttingDown) {
		t.Fatalf("cause=%v", context.Cause(ctx))
	}
}

func TestHandlerContext_AppliesRunTimeout(t *testing.T) {
	ctx, cancel := handlerContext(context.Background(), 1)
	defer cancel()
	dl, ok := ctx.Deadline()
	if !ok || time.Until(dl) > time.Second {
		t.Fatalf("expected deadline within 1s, got %v ok=%v", dl, ok)
	}
	ctx2, cancel2 := handlerContext(context.Background(), 0)
	defer cancel2()
	if _, ok := ctx2.Deadline(); ok {
		t.Fatal("expected no deadline when run timeout disabled")
	}
}

func TestHandlerContext_EndsWithClientOrShutdown(t *testing.T) {
	req, cancelReq := context.WithCancel(context.Background())
	ctx, cancel := handlerContext(req, 0)
	defer cancel()
	cancelReq()
	select {
	case <-ctx.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run context not canceled with the client")
	}

	base, cancelBase := context.WithCancel(context.Background())
	SetBaseContext(base)
	defer SetBaseContext(nil)
	ctx2, cancel2 := handlerContext(context.Background(), 0)
	defer cancel2()
	cancelBase()
	select {
	case <-ctx2.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("run context not canceled on shutdown")
	}
}

func TestUntilShutdown_CancelReleasesWatcher(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	SetBaseContext(base)
	defer SetBaseContext(nil)
	ctx, cancel := untilShutdown(context.Background())
	cancel()
	if !errors.Is(context.Cause(ctx), context.Canceled) {
		t.Fatalf("cause=%v", context.Cause(ctx))
	}
	cancelBase()
	if errors.Is(context.Cause(ctx), errShuttingDown) {
		t.Fatal("cause overwritten after cancel")
	}
}

package xcontext

import (
	"context"
	"errors"
)

// ErrShutdown is the cancellation cause used when the server is shutting down.
var ErrShutdown = errors.New("server shutting down")

// WithShutdown returns a context whose cancel function records ErrShutdown
// as the cause, so descendants can tell a shutdown from a client disconnect.
func WithShutdown(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	return ctx, func() { cancel(ErrShutdown) }
}

// IsShutdownInProgress reports whether ctx was cancelled by a shutdown.
func IsShutdownInProgress(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrShutdown)
}

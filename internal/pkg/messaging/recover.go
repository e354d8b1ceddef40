package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/prasetyoadi/rolodex/internal/pkg/stacktrace"
)

// callHandlerWithRecover converts a handler panic into an error so one
// bad message cannot take down the consumer loop.
func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := debug.Stack()
		frames := stacktrace.InternalPaths(stack)
		if len(frames) == 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", r, "stack", string(stack))
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", r, "stack", frames)
		}
		err = fmt.Errorf("messaging: panic in %s handler: %v", kind, r)
	}()

	return fn()
}

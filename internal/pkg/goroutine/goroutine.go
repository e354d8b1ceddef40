// Package goroutine bounds and tracks background work. Consumers and
// fire-and-forget jobs run through a Manager so shutdown can wait for
// them and panics never escape.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/prasetyoadi/rolodex/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is the per-CPU multiplier used when NewManager
// receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager runs functions in goroutines under a concurrency cap and
// collects their errors for Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      *sync.WaitGroup
	slots   chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a Manager capped at max concurrent goroutines.
func NewManager(max int) *Manager {
	if max < 1 {
		max = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{
		wg:    &sync.WaitGroup{},
		slots: make(chan struct{}, max),
	}
}

// Go schedules f on a goroutine when a slot is free. At the cap, or
// after Wait has been called, f is dropped with a warning.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.stateMu.RLock()
	if g.closed {
		g.stateMu.RUnlock()
		slog.WarnContext(pCtx, "goroutine manager is closed, skipping new goroutine")
		return
	}

	select {
	case g.slots <- struct{}{}:
		g.wg.Go(func() {
			g.stateMu.RUnlock()
			defer func() {
				<-g.slots

				if r := recover(); r != nil {
					stack := debug.Stack()
					paths := stacktrace.InternalPaths(stack)
					if len(paths) == 0 {
						slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", string(stack))
					} else {
						slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", paths)
					}
				}
			}()

			select {
			case <-pCtx.Done():
				slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
			default:
				if err := f(pCtx); err != nil {
					g.mu.Lock()
					g.errs = append(g.errs, err)
					g.mu.Unlock()
				}
			}
		})

	default:
		g.stateMu.RUnlock()
		slog.WarnContext(pCtx, "Maximum goroutine limit reached, failed to start new goroutine")
	}
}

// Wait stops admission, blocks until running goroutines finish, and
// returns their joined errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	return errors.Join(g.errs...)
}

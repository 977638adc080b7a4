// Package goroutine runs long-lived background jobs (queue consumers) with a
// concurrency cap, panic recovery and error collection for shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/notifyhub/internal/pkg/stacktrace"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a non-positive limit.
const DefaultMaxGoroutine = 100

// ErrLimitReached is collected when Go is called while every slot is taken.
var ErrLimitReached = errors.New("goroutine: maximum goroutine limit reached")

// Manager runs functions in goroutines with a configurable concurrency limit.
type Manager struct {
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	closed atomic.Bool

	mu   sync.Mutex
	errs []error
}

// NewManager creates a Manager allowing at most maxGoroutine concurrent jobs.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sem: semaphore.NewWeighted(int64(maxGoroutine))}
}

// Go schedules f. It is skipped, and logged, when the manager is closed or full.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}
	if g.closed.Load() {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return
	}
	if !g.sem.TryAcquire(1) {
		slog.WarnContext(ctx, "maximum goroutine limit reached, failed to start new goroutine")
		g.collect(ErrLimitReached)
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.sem.Release(1)
		defer g.recover(ctx)

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "goroutine canceled before start", "because", err)
			return
		}
		if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
			g.collect(err)
		}
	}()
}

func (g *Manager) recover(ctx context.Context) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", paths)
	} else {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
	}
	g.collect(fmt.Errorf("goroutine: panic: %v", rvr))
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait closes the manager, blocks until every job returns and joins their errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}
	g.closed.Store(true)
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

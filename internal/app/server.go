package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Run serves the HTTP and SSE listeners until a termination signal arrives
// or one of them fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	servers := []struct {
		name string
		srv  *http.Server
	}{
		{name: "http", srv: a.httpServer},
		{name: "sse", srv: a.sseServer},
	}

	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func() {
			slog.Info("server listening", "server", s.name, "address", s.srv.Addr)
			if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s server: %w", s.name, err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("termination signal received")
		return nil
	case err := <-errCh:
		return err
	}
}

// ShutdownTimeout is app.shutdown_seconds, 10s when unset.
func (a *App) ShutdownTimeout() time.Duration {
	if d := a.config.GetSecond("app.shutdown_seconds"); d > 0 {
		return d
	}
	return defaultShutdownTimeout
}

// Stop cancels the root context first, which ends the queue consumers and
// open SSE streams, then drains the servers and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}
	if err := a.sseServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "SSE Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for consumers to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}

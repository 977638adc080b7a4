package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/router"
)

type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// health reports reachability of postgres and redis. Any failing service
// turns the response into a 500.
func (a *App) health(r *router.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Services: map[string]string{"database": "ok", "redis": "ok"}}

	var failed error
	if err := a.dbConn.Ping(ctx); err != nil {
		slog.ErrorContext(ctx, "health check failed", "service", "database", "error", err)
		resp.Services["database"] = "down"
		failed = err
	}
	if err := a.cacheConn.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "health check failed", "service", "redis", "error", err)
		resp.Services["redis"] = "down"
		failed = err
	}
	if failed != nil {
		return nil, goerror.NewServer(failed)
	}

	return resp, nil
}

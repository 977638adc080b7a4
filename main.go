package main

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/app"
)

// @title           NotifyHub API
// @version         1.0
// @description     NotifyHub delivers innovation lifecycle notifications by email and in-app inbox.
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	if err := application.Run(); err != nil {
		slog.Error("server stopped unexpectedly", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()
	application.Stop(ctx)
}

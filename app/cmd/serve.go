package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/josebdo/Cristal-Event-Planner/app/configs"
	"github.com/josebdo/Cristal-Event-Planner/app/routes"
	"go.uber.org/zap"
)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to ten seconds.
func Serve(ctx context.Context, cfg *configs.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := configs.OpenConnection(*cfg)
	if err != nil {
		return err
	}

	router, err := routes.NewRouter(db, *cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("Server starting", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.S().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"xchain-backend/internal/app"
	"xchain-backend/internal/config"
	"xchain-backend/internal/logger"
	"xchain-backend/internal/router"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the transfer consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	if err := config.LoadConfig(configPath); err != nil {
		return errors.Wrap(err, "load config")
	}
	cfg := config.AppConfig
	log := logger.Setup(cfg.Log)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Warn("⚠️ auth.jwt_secret is empty, every API request will be rejected")
	}

	container, err := app.InitializeContainer(cfg, log)
	if err != nil {
		return errors.Wrap(err, "initialize services")
	}
	defer container.Cleanup()

	if err := container.Start(); err != nil {
		return errors.Wrap(err, "start transfer consumer")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.WithCORS(cfg.CORS, router.SetupRouter(container)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("🚀 xchain backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server")
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	log.Info("Server exited")
	return nil
}

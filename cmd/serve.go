package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitegen_server/internal/api"
	"sitegen_server/internal/output"
)

func serveCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(a)
		},
	}
}

func serve(a *app) error {
	orch, err := a.orchestrator()
	if err != nil {
		return err
	}

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	var writer api.ProjectWriter
	if a.cfg.OutputDir != "" {
		writer = output.NewWriter(a.cfg.OutputDir, a.log)
	}
	api.RegisterRoutes(router, api.NewAPIHandler(orch, a.store, writer, a.log))

	// A full run paces its calls, so the write timeout is generous.
	server := &http.Server{
		Addr:         a.cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting API server", zap.String("addr", a.cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		a.log.Info("received signal, shutting down server", zap.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("API server forced shutdown", zap.Error(err))
		return err
	}
	a.log.Info("API server gracefully stopped")
	return nil
}

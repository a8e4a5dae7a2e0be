// Package main is the entry point for the BARIN ALP expense API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barinalp/internal/app"
	"barinalp/internal/config"
	"barinalp/internal/domain/auth"
	v1 "barinalp/internal/infrastructure/http/v1"
	"barinalp/internal/infrastructure/http/v1/handlers"
	"barinalp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(logger.WithLogger(context.Background(), log), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting server", "app", cfg.App.Name, "version", cfg.App.Version)

	stack, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to build services", "error", err)
	}
	defer stack.Close()

	var pinger handlers.Pinger
	if stack.Pool != nil {
		pinger = stack.Pool
	}

	router := v1.NewRouter(v1.RouterConfig{
		App:           cfg.App,
		Logger:        log,
		JWTValidator:  auth.NewJWTService(cfg.JWT),
		Pinger:        pinger,
		Invoices:      stack.Invoices,
		Submissions:   stack.Local,
		Objects:       stack.Objects,
		ObjectOptions: stack.Options,
		Funding:       stack.Funding,
		Trail:         stack.Trail,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Server.Port, "postgres", stack.Pool != nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

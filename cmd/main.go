/*
Package main is the entry point for the chat server.

It loads configuration, initializes the global logging system, connects the
PostgreSQL store, wires the chat coordinator and HTTP server, and handles
operating system interrupt signals (SIGINT, SIGTERM) for graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rtchat/internal/app/chat"
	"rtchat/internal/app/db"
	"rtchat/internal/app/identity"
	"rtchat/internal/app/storage"
	"rtchat/internal/app/store"
	"rtchat/internal/configs"
	"rtchat/internal/handler"
	"rtchat/internal/pkg/logx"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("require_auth", cfg.RequireAuth()).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Msg("Configuration loaded successfully")

	if !cfg.RequireAuth() && cfg.Environment != "development" {
		logx.Warn("Permissive mode is active: unauthenticated connections are accepted. Set AUTH_JWT_SECRET to enforce strict authentication.",
			"environment", cfg.Environment,
		)
	}

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	messages := store.NewMessageStore(pool)
	users := store.NewUserStore(pool)

	hub := chat.NewHub()
	coordinator := chat.NewCoordinator(hub, messages, users)

	resolver := identity.NewResolver(cfg.AuthJWTSecret, cfg.RequireAuth())

	deps := &handler.AppDeps{
		Coordinator: coordinator,
		Config:      cfg,
		Resolver:    resolver,
		Messages:    messages,
		Users:       users,
		Pool:        pool,
	}

	if cfg.StorageEnabled() {
		storageService, err := storage.NewStorageService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize storage service")
		}
		deps.Storage = storageService
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for the interrupt signal, then shut down with a 5 second deadline.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/codewithacp/server/internal/config"
	"codeberg.org/codewithacp/server/internal/logger"
)

// @title CodeWithACP API
// @version 1.0
// @description Backend for the CodeWithACP online course marketplace
// @description
// @description Features:
// @description - Course catalogue and learner dashboard
// @description - Social (Google, GitHub, Facebook) and email sign-in with database sessions
// @description - Stripe payment intents with signed webhook reconciliation

// @contact.name API Support
// @contact.url https://codeberg.org/codewithacp/server

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

func main() {
	logger.Info("starting codewithacp server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)

	// create server with all dependencies
	srv, err := NewServer(startupCtx, cfg)
	startupCancel()

	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// start identity cleanup service with cancellable context
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go srv.cleanupService.Start(cleanupCtx)

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// stop cleanup service
	cleanupCancel()

	logger.Info("shutting down server")

	// graceful shutdown with 10 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close Redis connection
	closeRedis(srv.redis)

	// close database connection
	srv.db.Close()

	logger.Info("server stopped")
}

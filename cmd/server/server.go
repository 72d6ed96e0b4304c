package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/codewithacp/enrollments"
	"codeberg.org/codewithacp/server/codewithacp/identity"
	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/config"
	"codeberg.org/codewithacp/server/internal/database"
	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// how often the cleanup service purges expired sessions and sign-in tokens
const cleanupCheckInterval = 15 * time.Minute

// creates and configures a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.SupabaseConnString); err != nil {
			return nil, err
		}

		logger.Info("database migrations applied")
	}

	db, err := database.NewPool(ctx, cfg.SupabaseConnString)
	if err != nil {
		return nil, err
	}

	// redis is optional: without it rate limits are per-process and webhook dedupe is off
	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.ErrorErr(err, "failed to connect to redis, continuing without it")
			redisClient = nil
		}
	}

	identityStore := identity.NewStore(db)
	courseRepo := courses.NewRepository(db)
	enrollmentRepo := enrollments.NewRepository(db)
	paymentRepo := payments.NewRepository(db)

	services, err := InitializeServices(cfg, identityStore, paymentRepo, enrollmentRepo, redisClient)
	if err != nil {
		closeRedis(redisClient)
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		db:             db,
		redis:          redisClient,
		config:         cfg,
		router:         router,
		identityStore:  identityStore,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		paymentRepo:    paymentRepo,
		services:       services,
		cleanupService: identity.NewCleanupService(identityStore, cleanupCheckInterval),
	}

	if err := RegisterRoutes(router, server); err != nil {
		closeRedis(redisClient)
		db.Close()
		return nil, fmt.Errorf("failed to register routes: %w", err)
	}

	logger.Info("server initialized",
		"environment", cfg.Environment,
		"providers", services.Providers,
		"redis", redisClient != nil,
	)

	return server, nil
}

func closeRedis(client *redis.Client) {
	if client != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup
	}
}

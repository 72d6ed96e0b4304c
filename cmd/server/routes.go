package main

import (
	"fmt"

	"codeberg.org/codewithacp/server/api/rest/auth"
	"codeberg.org/codewithacp/server/api/rest/courses"
	"codeberg.org/codewithacp/server/api/rest/dashboard"
	"codeberg.org/codewithacp/server/api/rest/health"
	"codeberg.org/codewithacp/server/api/rest/payments"
	"codeberg.org/codewithacp/server/internal/logger"
	"codeberg.org/codewithacp/server/internal/metrics"
	"codeberg.org/codewithacp/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	services := server.services

	// ClientIP keys the ip rate limits; only listed proxies may set X-Forwarded-For
	if err := router.SetTrustedProxies(server.config.TrustedProxies); err != nil {
		return fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(services.Metrics.Middleware())
	router.Use(CORSMiddleware(server.config.CORSOrigins))

	router.GET("/health", health.Handler(server.db))
	router.GET("/metrics", gin.WrapH(metrics.Handler(services.Registry)))

	paymentsLimit, err := ratelimit.Middleware(services.RateStore, "payments", ratelimit.PaymentsRate, services.Metrics)
	if err != nil {
		return err
	}

	webhookLimit, err := ratelimit.Middleware(services.RateStore, "webhook", ratelimit.WebhookRate, services.Metrics)
	if err != nil {
		return err
	}

	authLimit, err := ratelimit.Middleware(services.RateStore, "auth", ratelimit.AuthRate, services.Metrics)
	if err != nil {
		return err
	}

	requireUser := services.Authenticator.RequireUser()
	optionalUser := services.Authenticator.OptionalUser()

	paymentDeps := payments.Dependencies{
		Gateway:    services.Gateway,
		Payments:   server.paymentRepo,
		Courses:    server.courseRepo,
		Reconciler: services.Reconciler,
		Recorder:   services.Metrics,
	}

	// the storefront and the stripe dashboard call the unversioned paths
	payments.RegisterRoutes(router.Group("/api"), paymentDeps, requireUser, paymentsLimit, webhookLimit)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		auth.RegisterRoutes(v1, auth.Dependencies{
			Users:         server.identityStore,
			SignIn:        services.SignIn,
			Sessions:      services.Sessions,
			Verification:  services.Verification,
			Tokens:        services.Tokens,
			Mailer:        services.Mailer,
			Providers:     services.Providers,
			BaseURL:       server.config.BaseURL,
			SecureCookies: server.config.IsHTTPS(),
		}, requireUser, authLimit)

		payments.RegisterRoutes(v1, paymentDeps, requireUser, paymentsLimit, webhookLimit)
		courses.RegisterRoutes(v1, server.courseRepo, server.enrollmentRepo, requireUser, optionalUser)
		dashboard.RegisterRoutes(v1, server.identityStore, server.enrollmentRepo, requireUser)
	}

	return nil
}

package main

import (
	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/codewithacp/enrollments"
	"codeberg.org/codewithacp/server/codewithacp/identity"
	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/billing"
	"codeberg.org/codewithacp/server/internal/config"
	"codeberg.org/codewithacp/server/internal/metrics"
	"codeberg.org/codewithacp/server/internal/webhooks"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
)

// holds all dependencies and state for the API server
type Server struct {
	db     *pgxpool.Pool
	redis  *redis.Client
	config *config.Config
	router *gin.Engine

	identityStore  *identity.Store
	courseRepo     *courses.Repository
	enrollmentRepo *enrollments.Repository
	paymentRepo    *payments.Repository

	services       *Services
	cleanupService *identity.CleanupService
}

// holds the auth, billing and observability services the routes are built from
type Services struct {
	Tokens        *auth.TokenIssuer
	Sessions      *auth.SessionManager
	SignIn        *auth.SignInService
	Verification  *auth.VerificationService
	Authenticator *auth.Authenticator
	Mailer        auth.Mailer
	Providers     []string

	Gateway    *billing.StripeGateway
	Reconciler *webhooks.Reconciler

	Registry  *prometheus.Registry
	Metrics   *metrics.Collector
	RateStore limiter.Store
}

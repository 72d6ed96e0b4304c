package main

import (
	"fmt"

	"codeberg.org/codewithacp/server/codewithacp/enrollments"
	"codeberg.org/codewithacp/server/codewithacp/identity"
	"codeberg.org/codewithacp/server/codewithacp/payments"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/billing"
	"codeberg.org/codewithacp/server/internal/config"
	"codeberg.org/codewithacp/server/internal/mailer"
	"codeberg.org/codewithacp/server/internal/metrics"
	"codeberg.org/codewithacp/server/internal/ratelimit"
	"codeberg.org/codewithacp/server/internal/webhooks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// creates and configures all service clients
func InitializeServices(
	cfg *config.Config,
	store *identity.Store,
	paymentRepo *payments.Repository,
	enrollmentRepo *enrollments.Repository,
	redisClient *redis.Client,
) (*Services, error) {
	providers, err := auth.InitializeProviders(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OAuth providers: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	sessions := auth.NewSessionManager(store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	var ledger webhooks.Ledger
	if redisClient != nil {
		ledger = webhooks.NewRedisLedger(redisClient, webhooks.DefaultLedgerTTL)
	}

	reconciler := webhooks.NewReconciler(
		billing.NewWebhookVerifier(cfg.StripeWebhookSecret),
		paymentRepo,
		enrollmentRepo,
		ledger,
		collector,
	)

	rateStore, err := ratelimit.NewStore(redisClient)
	if err != nil {
		return nil, err
	}

	return &Services{
		Tokens:        tokens,
		Sessions:      sessions,
		SignIn:        auth.NewSignInService(store, cfg.AllowEmailAccountLinking),
		Verification:  auth.NewVerificationService(store, cfg.SessionSecret),
		Authenticator: auth.NewAuthenticator(tokens, sessions),
		Mailer:        mailer.NewLogMailer(),
		Providers:     providers,
		Gateway:       billing.NewStripeGateway(cfg.StripeSecretKey),
		Reconciler:    reconciler,
		Registry:      registry,
		Metrics:       collector,
		RateStore:     rateStore,
	}, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return FromEnvironment()
}

// builds the config from the current process environment without touching .env
func FromEnvironment() (*Config, error) {
	cfg := &Config{
		Environment:          os.Getenv("ENVIRONMENT"),
		Port:                 os.Getenv("PORT"),
		BaseURL:              strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		FrontendURL:          strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		RedisURL:             os.Getenv("REDIS_URL"),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripePublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		GooglePayMerchantID:  os.Getenv("GOOGLE_PAY_MERCHANT_ID"),
		UPIMerchantID:        os.Getenv("UPI_MERCHANT_ID"),
		Google: OAuthCredentials{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},
		GitHub: OAuthCredentials{
			ClientID:     os.Getenv("GITHUB_ID"),
			ClientSecret: os.Getenv("GITHUB_SECRET"),
		},
		Facebook: OAuthCredentials{
			ClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			ClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		},
		AllowEmailAccountLinking: parseBool(os.Getenv("ALLOW_EMAIL_ACCOUNT_LINKING")),
		AutoMigrate:              parseBool(os.Getenv("AUTO_MIGRATE")),
		CORSOrigins:              splitList(os.Getenv("CORS_ORIGINS")),
		TrustedProxies:           splitList(os.Getenv("TRUSTED_PROXIES")),
	}

	connString, err := databaseURLFromEnvironment()
	if err != nil {
		return nil, err
	}

	cfg.SupabaseConnString = connString

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY environment variable is required")
	}

	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET environment variable is required")
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}

	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}

	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}

	return cfg, nil
}

// loads only the database connection string, for tools that don't serve traffic
func LoadDatabaseURL() (string, error) {
	_ = godotenv.Load()

	return databaseURLFromEnvironment()
}

// the setup wizard writes DATABASE_URL alongside the supabase variable
func databaseURLFromEnvironment() (string, error) {
	connString := os.Getenv("SUPABASE_CONNECTION_STRING")
	if connString == "" {
		connString = os.Getenv("DATABASE_URL")
	}

	if connString == "" {
		return "", fmt.Errorf("SUPABASE_CONNECTION_STRING or DATABASE_URL environment variable is required")
	}

	return connString, nil
}

// reports whether the server runs behind https (secure cookies)
func (c *Config) IsHTTPS() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

// reports whether the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseBool(value string) bool {
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && parsed
}

func splitList(value string) []string {
	var out []string

	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

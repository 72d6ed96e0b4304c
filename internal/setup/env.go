package setup

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type section struct {
	title  string
	values map[string]string
}

// extracts the project ref from a Supabase project URL such as https://abc123.supabase.co
func ProjectRef(supabaseURL string) string {
	raw := strings.TrimSpace(supabaseURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := parsed.Hostname()
	if !strings.HasSuffix(host, ".supabase.co") {
		return ""
	}

	return strings.TrimSuffix(host, ".supabase.co")
}

// builds the direct postgres connection string for a Supabase project
func ConnectionString(projectRef, password string) string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword("postgres", password),
		Host:   "db." + projectRef + ".supabase.co:5432",
		Path:   "/postgres",
	}

	return u.String()
}

// returns 32 random bytes, hex encoded
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func NewSecrets() (Secrets, error) {
	session, err := GenerateSecret()
	if err != nil {
		return Secrets{}, err
	}

	jwt, err := GenerateSecret()
	if err != nil {
		return Secrets{}, err
	}

	return Secrets{SessionSecret: session, JWTSecret: jwt}, nil
}

// renders the .env file contents; provider keys are placeholders to fill in later
func BuildEnv(answers Answers, secrets Secrets) (string, error) {
	ref := ProjectRef(answers.SupabaseURL)
	if ref == "" {
		return "", fmt.Errorf("invalid Supabase project URL %q", answers.SupabaseURL)
	}

	dsn := ConnectionString(ref, answers.DatabasePassword)

	sections := []section{
		{"Server", map[string]string{
			"ENVIRONMENT":  "development",
			"PORT":         "8080",
			"BASE_URL":     "http://localhost:8080",
			"FRONTEND_URL": "http://localhost:3000",
			"AUTO_MIGRATE": "true",
		}},
		{"Database (Supabase)", map[string]string{
			"DATABASE_URL":               dsn,
			"SUPABASE_CONNECTION_STRING": dsn,
		}},
		{"Supabase", map[string]string{
			"SUPABASE_URL":              strings.TrimRight(strings.TrimSpace(answers.SupabaseURL), "/"),
			"SUPABASE_ANON_KEY":         strings.TrimSpace(answers.AnonKey),
			"SUPABASE_SERVICE_ROLE_KEY": strings.TrimSpace(answers.ServiceRoleKey),
		}},
		{"Auth", map[string]string{
			"SESSION_SECRET": secrets.SessionSecret,
			"JWT_SECRET":     secrets.JWTSecret,
		}},
		{"Google OAuth (configure later)", map[string]string{
			"GOOGLE_CLIENT_ID":     "your-google-client-id",
			"GOOGLE_CLIENT_SECRET": "your-google-client-secret",
		}},
		{"Facebook OAuth (configure later)", map[string]string{
			"FACEBOOK_CLIENT_ID":     "your-facebook-client-id",
			"FACEBOOK_CLIENT_SECRET": "your-facebook-client-secret",
		}},
		{"GitHub OAuth (configure later)", map[string]string{
			"GITHUB_ID":     "your-github-client-id",
			"GITHUB_SECRET": "your-github-client-secret",
		}},
		{"Stripe (configure later)", map[string]string{
			"STRIPE_SECRET_KEY":      "sk_test_your-stripe-secret-key",
			"STRIPE_PUBLISHABLE_KEY": "pk_test_your-stripe-publishable-key",
			"STRIPE_WEBHOOK_SECRET":  "whsec_your-stripe-webhook-secret",
		}},
		{"Google Pay (configure later)", map[string]string{
			"GOOGLE_PAY_MERCHANT_ID": "your-google-pay-merchant-id",
		}},
		{"UPI (configure later)", map[string]string{
			"UPI_MERCHANT_ID": "your-upi-merchant-id",
		}},
	}

	var b strings.Builder

	for i, s := range sections {
		content, err := godotenv.Marshal(s.values)
		if err != nil {
			return "", fmt.Errorf("failed to encode %s: %w", s.title, err)
		}

		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("# " + s.title + "\n")
		b.WriteString(content)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// writes the env file readable only by the owner
func WriteEnv(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// reports whether a file already exists at path
func EnvExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

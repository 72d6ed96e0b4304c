package config

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	FrontendURL string

	SupabaseConnString string
	RedisURL           string

	SessionSecret string
	JWTSecret     string

	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string
	GooglePayMerchantID  string
	UPIMerchantID        string

	Google   OAuthCredentials
	GitHub   OAuthCredentials
	Facebook OAuthCredentials

	AllowEmailAccountLinking bool
	AutoMigrate              bool
	CORSOrigins              []string
	TrustedProxies           []string
}

// client credentials for one social sign-in provider
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
}

// reports whether both halves of the credential pair are set
func (o OAuthCredentials) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

type MigrateFlags struct {
	Direction string
	Steps     int
}

package auth

import (
	"fmt"
	"net/http"
	"slices"

	"codeberg.org/codewithacp/server/internal/config"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/github"
	"github.com/markbates/goth/providers/google"
)

// sets up OAuth providers using goth and returns the enabled provider names
func InitializeProviders(cfg *config.Config) ([]string, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))

	// configure cookie for OAuth redirects
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // 5 minutes, enough for OAuth flow
		HttpOnly: true,
		Secure:   cfg.IsHTTPS(),
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	if !cfg.Google.Enabled() {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}

	providers := []goth.Provider{
		google.New(
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			callbackURL(cfg.BaseURL, "google"),
			"email", "profile",
		),
	}

	if cfg.GitHub.Enabled() {
		providers = append(providers, github.New(
			cfg.GitHub.ClientID,
			cfg.GitHub.ClientSecret,
			callbackURL(cfg.BaseURL, "github"),
			"user:email",
		))
	}

	if cfg.Facebook.Enabled() {
		providers = append(providers, facebook.New(
			cfg.Facebook.ClientID,
			cfg.Facebook.ClientSecret,
			callbackURL(cfg.BaseURL, "facebook"),
			"email", "public_profile",
		))
	}

	goth.ClearProviders()
	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}

	slices.Sort(names)
	return names, nil
}

// reports whether the provider was registered with goth
func ProviderEnabled(name string) bool {
	_, err := goth.GetProvider(name)
	return err == nil
}

func callbackURL(baseURL, provider string) string {
	return baseURL + "/api/v1/auth/" + provider + "/callback"
}

// converts a completed goth sign-in into a provider profile
func ProfileFromGoth(user goth.User) Profile {
	name := user.Name
	if name == "" {
		name = user.NickName
	}

	return Profile{
		Provider:          user.Provider,
		ProviderAccountID: user.UserID,
		Email:             user.Email,
		Name:              name,
		Image:             user.AvatarURL,
		AccessToken:       user.AccessToken,
		RefreshToken:      user.RefreshToken,
		IDToken:           user.IDToken,
		ExpiresAt:         user.ExpiresAt,
	}
}

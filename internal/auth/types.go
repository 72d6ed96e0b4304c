package auth

import (
	"context"
	"errors"
	"time"

	"codeberg.org/codewithacp/server/codewithacp/identity"
	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookieName = "codewithacp.session-token"

	DefaultSessionMaxAge    = 30 * 24 * time.Hour
	DefaultSessionUpdateAge = 24 * time.Hour
	DefaultTokenTTL         = 7 * 24 * time.Hour
	VerificationTokenTTL    = 24 * time.Hour
)

var (
	// an email already belongs to a user who never linked this provider
	ErrAccountNotLinked = errors.New("account is not linked to the user with this email")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
)

// represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// signs and validates HS256 api tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// database-backed session lifecycle
type SessionManager struct {
	store     identity.Adapter
	maxAge    time.Duration
	updateAge time.Duration
	now       func() time.Time
}

// resolves provider and email sign-ins to users
type SignInService struct {
	store        identity.Adapter
	allowLinking bool
	now          func() time.Time
}

// issues and consumes email sign-in tokens
type VerificationService struct {
	store  identity.Adapter
	secret string
	ttl    time.Duration
	now    func() time.Time
}

// delivers sign-in links
type Mailer interface {
	SendSignInLink(ctx context.Context, email, link string) error
}

// normalized identity returned by an OAuth provider
type Profile struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
	AccessToken       string
	RefreshToken      string
	IDToken           string
	ExpiresAt         time.Time
}

// resolves a request's caller from a bearer token or session cookie
type Authenticator struct {
	tokens   *TokenIssuer
	sessions *SessionManager
}

package identity

import (
	"context"
	"errors"
	"time"

	"codeberg.org/codewithacp/server/internal/database"
)

// returned when an update targets a row that does not exist
var ErrNotFound = errors.New("identity: record not found")

// the storage contract the authentication layer depends on.
// lookups that miss return a nil record and a nil error.
type Adapter interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
	DeleteUser(ctx context.Context, id string) error

	LinkAccount(ctx context.Context, account *Account) (*Account, error)
	UnlinkAccount(ctx context.Context, provider, providerAccountID string) error

	CreateSession(ctx context.Context, session *Session) (*Session, error)
	GetSessionAndUser(ctx context.Context, sessionToken string) (*Session, *User, error)
	UpdateSession(ctx context.Context, session *Session) (*Session, error)
	DeleteSession(ctx context.Context, sessionToken string) error

	CreateVerificationToken(ctx context.Context, token *VerificationToken) (*VerificationToken, error)
	UseVerificationToken(ctx context.Context, identifier, token string) (*VerificationToken, error)
}

// postgres-backed adapter
type Store struct {
	db database.DB
}

type User struct {
	ID            string     `json:"id"`
	Name          *string    `json:"name,omitempty"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	Image         *string    `json:"image,omitempty"`
}

// a linked social identity
type Account struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Type              string     `json:"type"`
	Provider          string     `json:"provider"`
	ProviderAccountID string     `json:"provider_account_id"`
	RefreshToken      *string    `json:"-"`
	AccessToken       *string    `json:"-"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	TokenType         *string    `json:"token_type,omitempty"`
	Scope             *string    `json:"scope,omitempty"`
	IDToken           *string    `json:"-"`
	SessionState      *string    `json:"-"`
}

type Session struct {
	SessionToken string    `json:"-"`
	UserID       string    `json:"user_id"`
	Expires      time.Time `json:"expires"`
}

type VerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"-"`
	Expires    time.Time `json:"expires"`
}

// reports whether the session has passed its expiry at the given instant
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}

// reports whether the token has passed its expiry at the given instant
func (v *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(v.Expires)
}

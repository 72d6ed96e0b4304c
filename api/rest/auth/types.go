package auth

import (
	"context"
	"net/http"

	"codeberg.org/codewithacp/server/codewithacp/identity"
	"codeberg.org/codewithacp/server/internal/auth"
	"github.com/markbates/goth"
)

// the slice of the identity adapter the profile endpoints need
type UserStore interface {
	GetUser(ctx context.Context, id string) (*identity.User, error)
	GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*identity.User, error)
	UpdateUser(ctx context.Context, user *identity.User) (*identity.User, error)
	DeleteUser(ctx context.Context, id string) error
	UnlinkAccount(ctx context.Context, provider, providerAccountID string) error
}

type SignIn interface {
	SignInWithProfile(ctx context.Context, profile auth.Profile) (*identity.User, bool, error)
	SignInWithEmail(ctx context.Context, email string) (*identity.User, bool, error)
}

type Sessions interface {
	Start(ctx context.Context, userID string) (*identity.Session, error)
	End(ctx context.Context, token string) error
}

type Verification interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email, token string) error
}

type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// completes an OAuth handshake; gothic.CompleteUserAuth in production
type CompleteAuthFunc func(w http.ResponseWriter, r *http.Request) (goth.User, error)

type Dependencies struct {
	Users        UserStore
	SignIn       SignIn
	Sessions     Sessions
	Verification Verification
	Tokens       TokenIssuer
	Mailer       auth.Mailer

	Providers     []string
	BaseURL       string
	SecureCookies bool

	CompleteAuth CompleteAuthFunc
}

// AuthResponse returned after a successful sign-in
type AuthResponse struct {
	User      *identity.User `json:"user"`
	Token     string         `json:"token"`
	IsNewUser bool           `json:"is_new_user"`
}

// UserResponse wraps user data
type UserResponse struct {
	User *identity.User `json:"user"`
}

// MessageResponse for simple success messages
type MessageResponse struct {
	Message string `json:"message"`
}

type ProvidersResponse struct {
	Providers []string `json:"providers"`
}

// EmailSignInRequest starts a passwordless sign-in
type EmailSignInRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// UpdateProfileRequest for updating user profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Image string `json:"image" binding:"omitempty,url,max=500"`
}

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/codewithacp/server/codewithacp/identity"
)

func NewSignInService(store identity.Adapter, allowLinking bool) *SignInService {
	return &SignInService{store: store, allowLinking: allowLinking, now: time.Now}
}

// resolves an OAuth profile to a user, creating and linking as needed.
// reports whether a new user was created.
func (s *SignInService) SignInWithProfile(ctx context.Context, profile Profile) (*identity.User, bool, error) {
	if profile.Provider == "" || profile.ProviderAccountID == "" {
		return nil, false, fmt.Errorf("provider profile is missing an account id")
	}

	user, err := s.store.GetUserByAccount(ctx, profile.Provider, profile.ProviderAccountID)
	if err != nil {
		return nil, false, err
	}

	if user != nil {
		return user, false, nil
	}

	email := normalizeEmail(profile.Email)
	created := false

	if email != "" {
		user, err = s.store.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}

		if user != nil && !s.allowLinking {
			return nil, false, ErrAccountNotLinked
		}
	}

	if user == nil {
		user, err = s.store.CreateUser(ctx, &identity.User{
			Name:  optional(profile.Name),
			Email: email,
			Image: optional(profile.Image),
		})

		if err != nil {
			return nil, false, err
		}

		created = true
	}

	if _, err := s.store.LinkAccount(ctx, accountFromProfile(user.ID, profile)); err != nil {
		return nil, false, err
	}

	return user, created, nil
}

// resolves a verified email address to a user, creating it on first sign-in
// and stamping the verification time
func (s *SignInService) SignInWithEmail(ctx context.Context, email string) (*identity.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, false, fmt.Errorf("email is required")
	}

	now := s.now()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	if user == nil {
		user, err = s.store.CreateUser(ctx, &identity.User{Email: email, EmailVerified: &now})
		if err != nil {
			return nil, false, err
		}

		return user, true, nil
	}

	if user.EmailVerified == nil {
		user.EmailVerified = &now

		user, err = s.store.UpdateUser(ctx, user)
		if err != nil {
			return nil, false, err
		}
	}

	return user, false, nil
}

func accountFromProfile(userID string, profile Profile) *identity.Account {
	account := &identity.Account{
		UserID:            userID,
		Type:              "oauth",
		Provider:          profile.Provider,
		ProviderAccountID: profile.ProviderAccountID,
		AccessToken:       optional(profile.AccessToken),
		RefreshToken:      optional(profile.RefreshToken),
		IDToken:           optional(profile.IDToken),
	}

	if account.AccessToken != nil {
		account.TokenType = optional("bearer")
	}

	if !profile.ExpiresAt.IsZero() {
		expires := profile.ExpiresAt
		account.ExpiresAt = &expires
	}

	return account
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}

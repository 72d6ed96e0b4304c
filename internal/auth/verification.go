package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"codeberg.org/codewithacp/server/codewithacp/identity"
)

func NewVerificationService(store identity.Adapter, secret string) *VerificationService {
	return &VerificationService{
		store:  store,
		secret: secret,
		ttl:    VerificationTokenTTL,
		now:    time.Now,
	}
}

// creates a single-use sign-in token for the email and returns the raw value.
// only a hash of the token is stored.
func (v *VerificationService) Issue(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	token := hex.EncodeToString(raw)

	_, err := v.store.CreateVerificationToken(ctx, &identity.VerificationToken{
		Identifier: email,
		Token:      v.hash(token),
		Expires:    v.now().Add(v.ttl),
	})

	if err != nil {
		return "", err
	}

	return token, nil
}

// consumes the token; fails with ErrInvalidToken when unknown or already used
// and ErrTokenExpired when it outlived its ttl
func (v *VerificationService) Consume(ctx context.Context, email, token string) error {
	email = normalizeEmail(email)
	if email == "" || token == "" {
		return ErrInvalidToken
	}

	used, err := v.store.UseVerificationToken(ctx, email, v.hash(token))
	if err != nil {
		return err
	}

	if used == nil {
		return ErrInvalidToken
	}

	if used.Expired(v.now()) {
		return ErrTokenExpired
	}

	return nil
}

func (v *VerificationService) hash(token string) string {
	sum := sha256.Sum256([]byte(token + v.secret))
	return hex.EncodeToString(sum[:])
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"codeberg.org/codewithacp/server/codewithacp/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func NewSessionManager(store identity.Adapter) *SessionManager {
	return &SessionManager{
		store:     store,
		maxAge:    DefaultSessionMaxAge,
		updateAge: DefaultSessionUpdateAge,
		now:       time.Now,
	}
}

// creates a new session for the user
func (m *SessionManager) Start(ctx context.Context, userID string) (*identity.Session, error) {
	session, err := m.store.CreateSession(ctx, &identity.Session{
		SessionToken: uuid.NewString(),
		UserID:       userID,
		Expires:      m.now().Add(m.maxAge),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return session, nil
}

// returns the live session and its user, or nils when the token is unknown or expired.
// expired sessions are deleted; sessions older than the update age get their expiry extended.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*identity.Session, *identity.User, error) {
	if token == "" {
		return nil, nil, nil
	}

	session, user, err := m.store.GetSessionAndUser(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if session == nil {
		return nil, nil, nil
	}

	now := m.now()

	if session.Expired(now) {
		if err := m.store.DeleteSession(ctx, token); err != nil {
			return nil, nil, err
		}

		return nil, nil, nil
	}

	// the session was issued (or last extended) maxAge before its expiry
	if session.Expires.Add(-m.maxAge).Add(m.updateAge).Before(now) {
		refreshed, err := m.store.UpdateSession(ctx, &identity.Session{
			SessionToken: token,
			Expires:      now.Add(m.maxAge),
		})

		if err != nil {
			return nil, nil, fmt.Errorf("failed to refresh session: %w", err)
		}

		session = refreshed
	}

	return session, user, nil
}

// deletes the session
func (m *SessionManager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return m.store.DeleteSession(ctx, token)
}

// writes the session cookie
func SetSessionCookie(c *gin.Context, session *identity.Session, secure bool) {
	maxAge := int(time.Until(session.Expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, session.SessionToken, maxAge, "/", "", secure, true)
}

// expires the session cookie in the browser
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", secure, true)
}

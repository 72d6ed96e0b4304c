package auth

import (
	"strings"

	"codeberg.org/codewithacp/server/internal/errors"
	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/gin-gonic/gin"
)

func NewAuthenticator(tokens *TokenIssuer, sessions *SessionManager) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions}
}

// rejects requests without a valid bearer token or session cookie
func (a *Authenticator) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.authenticate(c) {
			errors.Unauthorized(c, "")
			return
		}

		c.Next()
	}
}

// attaches the caller when credentials are present but doesn't require them
func (a *Authenticator) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.authenticate(c)
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) bool {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return false
		}

		claims, err := a.tokens.Validate(strings.TrimSpace(parts[1]))
		if err != nil {
			return false
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		return true
	}

	if a.sessions == nil {
		return false
	}

	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return false
	}

	session, user, err := a.sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("failed to resolve session", "error", err)
		return false
	}

	if session == nil {
		return false
	}

	c.Set("user_id", user.ID)
	c.Set("user_email", user.Email)
	c.Set("session_token", session.SessionToken)
	return true
}

// extracts user_id from context after authentication
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	return id, ok && id != ""
}

// returns the session token the request authenticated with, if any
func GetSessionToken(c *gin.Context) string {
	if token, ok := c.Get("session_token"); ok {
		if s, ok := token.(string); ok {
			return s
		}
	}

	token, _ := c.Cookie(SessionCookieName)
	return token
}

package auth

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"codeberg.org/codewithacp/server/codewithacp/identity"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/errors"
	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
	"github.com/microcosm-cc/bluemonday"
)

var namePolicy = bluemonday.StrictPolicy()

// ProvidersHandler godoc
// @Summary List sign-in providers
// @Description Returns the OAuth providers configured on this server
// @Tags auth
// @Produce json
// @Success 200 {object} ProvidersResponse
// @Router /api/v1/auth/providers [get]
func ProvidersHandler(providers []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := providers
		if list == nil {
			list = []string{}
		}

		c.JSON(http.StatusOK, ProvidersResponse{Providers: list})
	}
}

// BeginAuthHandler godoc
// @Summary Start OAuth authentication
// @Description Begin OAuth authentication flow with specified provider (google, github, facebook)
// @Tags auth
// @Param provider path string true "OAuth provider" Enums(google, github, facebook)
// @Success 307 {string} string "Redirect to OAuth provider"
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/auth/{provider} [get]
func BeginAuthHandler(providers []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if !slices.Contains(providers, provider) {
			errors.BadRequest(c, "invalid provider", nil)
			return
		}

		setProviderQuery(c, provider)
		gothic.BeginAuthHandler(c.Writer, c.Request)
	}
}

// CallbackHandler godoc
// @Summary OAuth callback
// @Description OAuth provider callback. Starts a session and returns user data and JWT token
// @Tags auth
// @Produce json
// @Param provider path string true "OAuth provider" Enums(google, github, facebook)
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/{provider}/callback [get]
func CallbackHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")

		if !slices.Contains(deps.Providers, provider) {
			errors.BadRequest(c, "invalid provider", nil)
			return
		}

		setProviderQuery(c, provider)

		gothUser, err := deps.CompleteAuth(c.Writer, c.Request)
		if err != nil {
			errors.BadRequest(c, "authentication failed", err)
			return
		}

		user, created, err := deps.SignIn.SignInWithProfile(c.Request.Context(), auth.ProfileFromGoth(gothUser))
		if stderrors.Is(err, auth.ErrAccountNotLinked) {
			errors.Conflict(c, "this email is already registered with a different sign-in method")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to sign in", err)
			return
		}

		completeSignIn(c, deps, user, created)
	}
}

// EmailSignInHandler godoc
// @Summary Request an email sign-in link
// @Description Sends a single-use sign-in link to the given address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailSignInRequest true "Email address"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/email [post]
func EmailSignInHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EmailSignInRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		email := strings.ToLower(strings.TrimSpace(req.Email))

		token, err := deps.Verification.Issue(ctx, email)
		if err != nil {
			errors.InternalError(c, "failed to create sign-in link", err)
			return
		}

		link := deps.BaseURL + "/api/v1/auth/email/callback?" + url.Values{
			"email": {email},
			"token": {token},
		}.Encode()

		if err := deps.Mailer.SendSignInLink(ctx, email, link); err != nil {
			errors.InternalError(c, "failed to send sign-in link", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "check your email for a sign-in link"})
	}
}

// EmailCallbackHandler godoc
// @Summary Complete an email sign-in
// @Description Consumes the sign-in link token, starts a session and returns user data and JWT token
// @Tags auth
// @Produce json
// @Param email query string true "Email address"
// @Param token query string true "Sign-in token"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/email/callback [get]
func EmailCallbackHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.Query("email")))
		token := c.Query("token")

		if email == "" || token == "" {
			errors.BadRequest(c, "email and token are required", nil)
			return
		}

		ctx := c.Request.Context()

		err := deps.Verification.Consume(ctx, email, token)
		if stderrors.Is(err, auth.ErrInvalidToken) || stderrors.Is(err, auth.ErrTokenExpired) {
			errors.BadRequest(c, "sign-in link is invalid or has expired", nil)
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to verify sign-in link", err)
			return
		}

		user, created, err := deps.SignIn.SignInWithEmail(ctx, email)
		if err != nil {
			errors.InternalError(c, "failed to sign in", err)
			return
		}

		completeSignIn(c, deps, user, created)
	}
}

// GetCurrentUserHandler godoc
// @Summary Get current user
// @Description Get authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [get]
// @Security BearerAuth
func GetCurrentUserHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			errors.InternalError(c, "failed to load user", err)
			return
		}

		if user == nil {
			errors.NotFound(c, "user")
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: user})
	}
}

// UpdateProfileHandler godoc
// @Summary Update user profile
// @Description Update authenticated user's name and image
// @Tags auth
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile update"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [put]
// @Security BearerAuth
func UpdateProfileHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req UpdateProfileRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		name := strings.TrimSpace(namePolicy.Sanitize(req.Name))
		if name == "" {
			errors.BadRequest(c, "name must not be empty", nil)
			return
		}

		ctx := c.Request.Context()

		user, err := users.GetUser(ctx, userID)
		if err != nil {
			errors.InternalError(c, "failed to load user", err)
			return
		}

		if user == nil {
			errors.NotFound(c, "user")
			return
		}

		user.Name = &name
		if req.Image != "" {
			user.Image = &req.Image
		}

		updated, err := users.UpdateUser(ctx, user)
		if stderrors.Is(err, identity.ErrNotFound) {
			errors.NotFound(c, "user")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to update profile", err)
			return
		}

		c.JSON(http.StatusOK, UserResponse{User: updated})
	}
}

// DeleteAccountHandler godoc
// @Summary Delete account
// @Description Deletes the authenticated user with their linked accounts and sessions
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/me [delete]
// @Security BearerAuth
func DeleteAccountHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		if err := deps.Users.DeleteUser(c.Request.Context(), userID); err != nil {
			errors.InternalError(c, "failed to delete account", err)
			return
		}

		auth.ClearSessionCookie(c, deps.SecureCookies)

		logger.FromContext(c.Request.Context()).Info("account deleted", "user_id", userID)

		c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
	}
}

// UnlinkAccountHandler godoc
// @Summary Unlink a provider account
// @Description Removes a linked social identity from the authenticated user
// @Tags auth
// @Produce json
// @Param provider path string true "OAuth provider"
// @Param account_id path string true "Provider account id"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/auth/accounts/{provider}/{account_id} [delete]
// @Security BearerAuth
func UnlinkAccountHandler(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		ctx := c.Request.Context()
		provider := c.Param("provider")
		accountID := c.Param("account_id")

		owner, err := users.GetUserByAccount(ctx, provider, accountID)
		if err != nil {
			errors.InternalError(c, "failed to load account", err)
			return
		}

		// someone else's account looks the same as a missing one
		if owner == nil || owner.ID != userID {
			errors.NotFound(c, "account")
			return
		}

		if err := users.UnlinkAccount(ctx, provider, accountID); err != nil {
			errors.InternalError(c, "failed to unlink account", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "account unlinked"})
	}
}

// LogoutHandler godoc
// @Summary Logout
// @Description Ends the current session and clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/auth/logout [post]
func LogoutHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := auth.GetSessionToken(c); token != "" {
			if err := deps.Sessions.End(c.Request.Context(), token); err != nil {
				logger.ErrorErr(err, "failed to end session")
			}
		}

		auth.ClearSessionCookie(c, deps.SecureCookies)
		c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
	}
}

func completeSignIn(c *gin.Context, deps Dependencies, user *identity.User, created bool) {
	ctx := c.Request.Context()

	session, err := deps.Sessions.Start(ctx, user.ID)
	if err != nil {
		errors.InternalError(c, "failed to start session", err)
		return
	}

	token, err := deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		errors.InternalError(c, "failed to generate token", err)
		return
	}

	auth.SetSessionCookie(c, session, deps.SecureCookies)

	logger.FromContext(ctx).Info("user signed in", "user_id", user.ID, "new_user", created)

	c.JSON(http.StatusOK, AuthResponse{User: user, Token: token, IsNewUser: created})
}

// gothic reads the provider name from the query string
func setProviderQuery(c *gin.Context, provider string) {
	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
}

package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

// registers all authentication routes
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies, requireUser, limit gin.HandlerFunc) {
	if deps.CompleteAuth == nil {
		deps.CompleteAuth = gothic.CompleteUserAuth
	}

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/providers", ProvidersHandler(deps.Providers))

		authGroup.POST("/email", limit, EmailSignInHandler(deps))
		authGroup.GET("/email/callback", limit, EmailCallbackHandler(deps))

		authGroup.GET("/me", requireUser, GetCurrentUserHandler(deps.Users))
		authGroup.PUT("/me", requireUser, UpdateProfileHandler(deps.Users))
		authGroup.DELETE("/me", requireUser, DeleteAccountHandler(deps))
		authGroup.DELETE("/accounts/:provider/:account_id", requireUser, UnlinkAccountHandler(deps.Users))

		authGroup.POST("/logout", LogoutHandler(deps))

		authGroup.GET("/:provider", limit, BeginAuthHandler(deps.Providers))
		authGroup.GET("/:provider/callback", limit, CallbackHandler(deps))
	}
}

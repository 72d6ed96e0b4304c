package dashboard

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, users UserFinder, enrolled EnrollmentLister, requireUser gin.HandlerFunc) {
	router.GET("/dashboard", requireUser, Handler(users, enrolled))
}

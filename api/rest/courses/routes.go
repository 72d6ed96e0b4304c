package courses

import "github.com/gin-gonic/gin"

// registers catalogue routes; optionalUser marks enrollment on course detail
func RegisterRoutes(router *gin.RouterGroup, catalog Catalog, enroller Enroller, requireUser, optionalUser gin.HandlerFunc) {
	coursesGroup := router.Group("/courses")
	{
		coursesGroup.GET("", ListCoursesHandler(catalog))
		coursesGroup.GET("/:slug", optionalUser, GetCourseHandler(catalog, enroller))
		coursesGroup.POST("/:slug/enroll", requireUser, EnrollHandler(catalog, enroller))
	}
}

package dashboard

import (
	"net/http"

	"codeberg.org/codewithacp/server/codewithacp/enrollments"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/errors"
	"github.com/gin-gonic/gin"
)

// Handler godoc
// @Summary Learner dashboard
// @Description Returns the authenticated user with their enrollments and progress stats
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/dashboard [get]
// @Security BearerAuth
func Handler(users UserFinder, enrolled EnrollmentLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
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

		list, err := enrolled.ListForUser(ctx, userID)
		if err != nil {
			errors.InternalError(c, "failed to load enrollments", err)
			return
		}

		if list == nil {
			list = []enrollments.WithCourse{}
		}

		c.JSON(http.StatusOK, Response{
			User:        user,
			Enrollments: list,
			Stats:       enrollments.Summarize(list),
		})
	}
}

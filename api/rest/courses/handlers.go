package courses

import (
	stderrors "errors"
	"net/http"
	"strings"

	"codeberg.org/codewithacp/server/api/rest/pagination"
	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/internal/auth"
	"codeberg.org/codewithacp/server/internal/errors"
	"codeberg.org/codewithacp/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// ListCoursesHandler godoc
// @Summary List courses
// @Description Browse the course catalogue with optional search and filters
// @Tags courses
// @Produce json
// @Param search query string false "Search title and description"
// @Param level query string false "Course level" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param category query string false "Category"
// @Param price query string false "Price filter" Enums(all, free, paid)
// @Param limit query int false "Max results (default 12, max 50)"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} ListCoursesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/courses [get]
func ListCoursesHandler(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := pagination.FromQuery(c, defaultPageSize, maxPageSize)

		filter := courses.ListFilter{
			Search:   strings.TrimSpace(c.Query("search")),
			Category: strings.TrimSpace(c.Query("category")),
			Price:    strings.ToLower(c.DefaultQuery("price", courses.PriceAll)),
			Limit:    params.Limit,
			Offset:   params.Offset,
		}

		if level := c.Query("level"); level != "" {
			filter.Level = courses.Level(strings.ToUpper(level))
			if !filter.Level.Valid() {
				errors.BadRequest(c, "invalid level", nil)
				return
			}
		}

		switch filter.Price {
		case courses.PriceAll, courses.PriceFree, courses.PricePaid:
		default:
			errors.BadRequest(c, "invalid price filter", nil)
			return
		}

		list, total, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			errors.InternalError(c, "failed to list courses", err)
			return
		}

		c.JSON(http.StatusOK, ListCoursesResponse{
			Courses:    list,
			Pagination: pagination.NewMeta(params, total),
		})
	}
}

// GetCourseHandler godoc
// @Summary Get course
// @Description Get a course by slug. Authenticated callers also learn whether they are enrolled
// @Tags courses
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} CourseResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/courses/{slug} [get]
func GetCourseHandler(catalog Catalog, enroller Enroller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		course, err := catalog.GetBySlug(ctx, c.Param("slug"))
		if stderrors.Is(err, courses.ErrCourseNotFound) {
			errors.NotFound(c, "course")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to load course", err)
			return
		}

		resp := CourseResponse{Course: course}

		if userID, ok := auth.GetUserID(c); ok {
			enrolled, err := enroller.IsEnrolled(ctx, userID, course.ID)
			if err != nil {
				logger.ErrorErr(err, "failed to check enrollment", "course_id", course.ID)
			}

			resp.Enrolled = enrolled
		}

		c.JSON(http.StatusOK, resp)
	}
}

// EnrollHandler godoc
// @Summary Enroll in a course
// @Description Enrolls the authenticated user in a free course. Paid courses require a completed payment
// @Tags courses
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} EnrollResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/courses/{slug}/enroll [post]
// @Security BearerAuth
func EnrollHandler(catalog Catalog, enroller Enroller) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		ctx := c.Request.Context()

		course, err := catalog.GetBySlug(ctx, c.Param("slug"))
		if stderrors.Is(err, courses.ErrCourseNotFound) {
			errors.NotFound(c, "course")
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to load course", err)
			return
		}

		enrolled, err := enroller.IsEnrolled(ctx, userID, course.ID)
		if err != nil {
			errors.InternalError(c, "failed to check enrollment", err)
			return
		}

		if enrolled {
			c.JSON(http.StatusOK, EnrollResponse{CourseID: course.ID, Enrolled: true, AlreadyEnrolled: true})
			return
		}

		if !course.IsFree {
			errors.PaymentRequired(c, "this course requires a completed payment")
			return
		}

		created, err := enroller.Enroll(ctx, userID, course.ID, nil)
		if err != nil {
			errors.InternalError(c, "failed to enroll", err)
			return
		}

		logger.FromContext(ctx).Info("user enrolled", "user_id", userID, "course_id", course.ID)

		c.JSON(http.StatusOK, EnrollResponse{CourseID: course.ID, Enrolled: true, AlreadyEnrolled: !created})
	}
}

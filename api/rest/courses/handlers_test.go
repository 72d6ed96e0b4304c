package courses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	apperrors "codeberg.org/codewithacp/server/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockCatalog struct {
	courses []courses.Course
	filters []courses.ListFilter
	err     error
}

func (m *mockCatalog) List(_ context.Context, filter courses.ListFilter) ([]courses.Course, int, error) {
	m.filters = append(m.filters, filter)
	if m.err != nil {
		return nil, 0, m.err
	}

	return m.courses, len(m.courses), nil
}

func (m *mockCatalog) GetBySlug(_ context.Context, slug string) (*courses.Course, error) {
	if m.err != nil {
		return nil, m.err
	}

	for i := range m.courses {
		if m.courses[i].Slug == slug {
			return &m.courses[i], nil
		}
	}

	return nil, courses.ErrCourseNotFound
}

type mockEnroller struct {
	enrolled map[string]bool
}

func (m *mockEnroller) Enroll(_ context.Context, userID, courseID string, _ *string) (bool, error) {
	key := userID + "/" + courseID
	if m.enrolled[key] {
		return false, nil
	}

	m.enrolled[key] = true
	return true, nil
}

func (m *mockEnroller) IsEnrolled(_ context.Context, userID, courseID string) (bool, error) {
	return m.enrolled[userID+"/"+courseID], nil
}

func testCatalog() *mockCatalog {
	return &mockCatalog{courses: []courses.Course{
		{ID: "c-free", Slug: "python-data-science", Title: "Python for Data Science", IsFree: true, Level: courses.LevelBeginner},
		{ID: "c-paid", Slug: "fullstack-nextjs", Title: "Full-Stack Next.js", PriceCents: 9900, Level: courses.LevelAdvanced},
	}}
}

func setup(catalog *mockCatalog) (*gin.Engine, *mockEnroller) {
	enroller := &mockEnroller{enrolled: map[string]bool{}}

	attachUser := func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set("user_id", user)
		}
		c.Next()
	}

	requireUser := func(c *gin.Context) {
		if user := c.GetHeader("X-Test-User"); user != "" {
			c.Set("user_id", user)
			c.Next()
			return
		}

		apperrors.Unauthorized(c, "")
	}

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), catalog, enroller, requireUser, attachUser)

	return router, enroller
}

func serve(router *gin.Engine, method, target, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListCourses(t *testing.T) {
	catalog := testCatalog()
	router, _ := setup(catalog)

	w := serve(router, http.MethodGet, "/api/v1/courses?search=%20next%20&level=advanced&price=PAID&limit=500&offset=-3", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListCoursesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Courses, 2)
	assert.Equal(t, 2, resp.Pagination.Total)
	assert.Equal(t, maxPageSize, resp.Pagination.Limit)
	assert.False(t, resp.Pagination.HasMore)

	require.Len(t, catalog.filters, 1)
	assert.Equal(t, courses.ListFilter{
		Search: "next",
		Level:  courses.LevelAdvanced,
		Price:  courses.PricePaid,
		Limit:  maxPageSize,
		Offset: 0,
	}, catalog.filters[0])
}

func TestListCourses_Defaults(t *testing.T) {
	catalog := testCatalog()
	router, _ := setup(catalog)

	w := serve(router, http.MethodGet, "/api/v1/courses", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, courses.PriceAll, catalog.filters[0].Price)
	assert.Equal(t, defaultPageSize, catalog.filters[0].Limit)
}

func TestListCourses_InvalidFilters(t *testing.T) {
	for _, query := range []string{"level=expert", "price=cheap"} {
		t.Run(query, func(t *testing.T) {
			catalog := testCatalog()
			router, _ := setup(catalog)

			w := serve(router, http.MethodGet, "/api/v1/courses?"+query, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, catalog.filters)
		})
	}
}

func TestListCourses_StoreError(t *testing.T) {
	catalog := testCatalog()
	catalog.err = errors.New("connection reset")
	router, _ := setup(catalog)

	w := serve(router, http.MethodGet, "/api/v1/courses", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetCourse(t *testing.T) {
	router, enroller := setup(testCatalog())
	enroller.enrolled["user-1/c-paid"] = true

	w := serve(router, http.MethodGet, "/api/v1/courses/fullstack-nextjs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CourseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "c-paid", resp.Course.ID)
	assert.False(t, resp.Enrolled)

	w = serve(router, http.MethodGet, "/api/v1/courses/fullstack-nextjs", "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Enrolled)

	w = serve(router, http.MethodGet, "/api/v1/courses/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEnroll(t *testing.T) {
	router, enroller := setup(testCatalog())

	w := serve(router, http.MethodPost, "/api/v1/courses/python-data-science/enroll", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(router, http.MethodPost, "/api/v1/courses/python-data-science/enroll", "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"course_id":"c-free","enrolled":true,"already_enrolled":false}`, w.Body.String())
	assert.True(t, enroller.enrolled["user-1/c-free"])

	w = serve(router, http.MethodPost, "/api/v1/courses/python-data-science/enroll", "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"course_id":"c-free","enrolled":true,"already_enrolled":true}`, w.Body.String())
}

func TestEnroll_PaidCourseRequiresPayment(t *testing.T) {
	router, enroller := setup(testCatalog())

	w := serve(router, http.MethodPost, "/api/v1/courses/fullstack-nextjs/enroll", "user-1")

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.CodePaymentRequired)
	assert.False(t, enroller.enrolled["user-1/c-paid"])

	// a completed purchase already enrolled the user
	enroller.enrolled["user-1/c-paid"] = true

	w = serve(router, http.MethodPost, "/api/v1/courses/fullstack-nextjs/enroll", "user-1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnroll_UnknownCourse(t *testing.T) {
	router, _ := setup(testCatalog())

	w := serve(router, http.MethodPost, "/api/v1/courses/missing/enroll", "user-1")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

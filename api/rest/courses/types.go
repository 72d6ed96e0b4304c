package courses

import (
	"context"

	"codeberg.org/codewithacp/server/api/rest/pagination"
	"codeberg.org/codewithacp/server/codewithacp/courses"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

type Catalog interface {
	List(ctx context.Context, filter courses.ListFilter) ([]courses.Course, int, error)
	GetBySlug(ctx context.Context, slug string) (*courses.Course, error)
}

type Enroller interface {
	Enroll(ctx context.Context, userID, courseID string, paymentID *string) (bool, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

// ListCoursesResponse is a page of the catalogue
type ListCoursesResponse struct {
	Courses    []courses.Course `json:"courses"`
	Pagination pagination.Meta  `json:"pagination"`
}

type CourseResponse struct {
	Course   *courses.Course `json:"course"`
	Enrolled bool            `json:"enrolled"`
}

type EnrollResponse struct {
	CourseID        string `json:"course_id"`
	Enrolled        bool   `json:"enrolled"`
	AlreadyEnrolled bool   `json:"already_enrolled"`
}

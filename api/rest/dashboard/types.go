package dashboard

import (
	"context"

	"codeberg.org/codewithacp/server/codewithacp/enrollments"
	"codeberg.org/codewithacp/server/codewithacp/identity"
)

type UserFinder interface {
	GetUser(ctx context.Context, id string) (*identity.User, error)
}

type EnrollmentLister interface {
	ListForUser(ctx context.Context, userID string) ([]enrollments.WithCourse, error)
}

// Response is everything the learner dashboard renders
type Response struct {
	User        *identity.User           `json:"user"`
	Enrollments []enrollments.WithCourse `json:"enrollments"`
	Stats       enrollments.Stats        `json:"stats"`
}

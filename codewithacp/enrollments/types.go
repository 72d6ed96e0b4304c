package enrollments

import (
	"time"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/internal/database"
)

type Repository struct {
	db database.DB
}

type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	PaymentID  *string   `json:"payment_id,omitempty"`
	Progress   int       `json:"progress"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// an enrollment joined with the course it belongs to
type WithCourse struct {
	Enrollment
	Course courses.Course `json:"course"`
}

type Stats struct {
	EnrolledCourses  int `json:"enrolled_courses"`
	CompletedCourses int `json:"completed_courses"`
	HoursTotal       int `json:"hours_total"`
}

// aggregates dashboard counters from a user's enrollments
func Summarize(list []WithCourse) Stats {
	stats := Stats{EnrolledCourses: len(list)}
	minutes := 0

	for _, e := range list {
		if e.Progress >= 100 {
			stats.CompletedCourses++
		}

		minutes += e.Course.DurationMinutes
	}

	stats.HoursTotal = minutes / 60
	return stats
}

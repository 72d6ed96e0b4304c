package enrollments

import (
	"context"
	"fmt"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"codeberg.org/codewithacp/server/internal/database"
)

func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

// enrolls the user in the course; reports false when already enrolled
func (r *Repository) Enroll(ctx context.Context, userID, courseID string, paymentID *string) (bool, error) {
	tag, err := r.db.Exec(ctx, queryEnroll, userID, courseID, paymentID)
	if err != nil {
		return false, fmt.Errorf("failed to enroll user: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var enrolled bool

	if err := r.db.QueryRow(ctx, queryIsEnrolled, userID, courseID).Scan(&enrolled); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}

	return enrolled, nil
}

// returns the user's enrollments with their courses, most recent first
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]WithCourse, error) {
	rows, err := r.db.Query(ctx, queryListByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	defer rows.Close()
	list := []WithCourse{}

	for rows.Next() {
		var (
			e     WithCourse
			level string
		)

		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CourseID,
			&e.PaymentID,
			&e.Progress,
			&e.EnrolledAt,
			&e.Course.ID,
			&e.Course.Slug,
			&e.Course.Title,
			&e.Course.Description,
			&e.Course.Thumbnail,
			&e.Course.PriceCents,
			&e.Course.Currency,
			&level,
			&e.Course.DurationMinutes,
			&e.Course.Instructor,
			&e.Course.Category,
			&e.Course.Rating,
			&e.Course.ReviewCount,
			&e.Course.IsFree,
			&e.Course.CreatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}

		e.Course.Level = courses.Level(level)
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return list, nil
}

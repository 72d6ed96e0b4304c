package enrollments

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"codeberg.org/codewithacp/server/codewithacp/courses"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewRepository(mock), mock
}

func TestEnroll(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, course_id) DO NOTHING")).
		WithArgs("u-1", "c-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WithArgs("u-1", "c-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.Enroll(ctx, "u-1", "c-1", nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Enroll(ctx, "u-1", "c-1", nil)
	require.NoError(t, err)
	assert.False(t, created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnroll_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WithArgs("u-1", "c-1", pgxmock.AnyArg()).
		WillReturnError(errors.New("fk violation"))

	_, err := repo.Enroll(context.Background(), "u-1", "c-1", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enroll user")
}

func TestIsEnrolled(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("u-1", "c-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	enrolled, err := repo.IsEnrolled(context.Background(), "u-1", "c-1")

	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestListForUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	paymentID := "p-1"

	cols := []string{
		"id", "user_id", "course_id", "payment_id", "progress", "enrolled_at",
		"c_id", "slug", "title", "description", "thumbnail", "price_cents", "currency", "level",
		"duration_minutes", "instructor", "category", "rating", "review_count", "is_free", "created_at",
	}

	mock.ExpectQuery(regexp.QuoteMeta("JOIN courses c ON c.id = e.course_id")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			"e-1", "u-1", "c-1", &paymentID, 40, at,
			"c-1", "fullstack-nextjs", "Full-Stack Development with Next.js", "desc", "", int64(9900), "usd", "ADVANCED",
			1920, "Mike Johnson", "Web Development", 4.7, 1500, false, at,
		))

	list, err := repo.ListForUser(context.Background(), "u-1")

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p-1", *list[0].PaymentID)
	assert.Equal(t, courses.LevelAdvanced, list[0].Course.Level)
	assert.Equal(t, 40, list[0].Progress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]WithCourse{
		{Enrollment: Enrollment{Progress: 100}, Course: courses.Course{DurationMinutes: 1440}},
		{Enrollment: Enrollment{Progress: 30}, Course: courses.Course{DurationMinutes: 90}},
	})

	assert.Equal(t, Stats{EnrolledCourses: 2, CompletedCourses: 1, HoursTotal: 25}, stats)
	assert.Equal(t, Stats{}, Summarize(nil))
}

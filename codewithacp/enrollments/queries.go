package enrollments

const (
	// idempotent; a second enrollment for the same course is a no-op
	queryEnroll = `
		INSERT INTO enrollments (user_id, course_id, payment_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`

	queryIsEnrolled = `
		SELECT EXISTS (
			SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2
		)
	`

	queryListByUser = `
		SELECT e.id, e.user_id, e.course_id, e.payment_id, e.progress, e.enrolled_at,
			c.id, c.slug, c.title, c.description, c.thumbnail, c.price_cents, c.currency, c.level,
			c.duration_minutes, c.instructor, c.category, c.rating::float8, c.review_count, c.is_free, c.created_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.enrolled_at DESC
	`
)

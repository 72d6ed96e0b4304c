package courses

const (
	courseColumns = `id, slug, title, description, thumbnail, price_cents, currency, level,
		duration_minutes, instructor, category, rating::float8, review_count, is_free, created_at`

	queryGetBySlug = `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE slug = $1
	`

	queryGetByID = `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE id = $1
	`

	queryListBase = `
		FROM courses
		WHERE 1 = 1`
)

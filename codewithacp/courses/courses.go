package courses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/codewithacp/server/internal/database"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCourseNotFound = errors.New("course not found")
)

func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

// returns one page of courses matching the filter plus the total match count
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Course, int, error) {
	where, args := buildWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query := "SELECT " + courseColumns + " " + where +
		fmt.Sprintf(" ORDER BY created_at ASC, slug ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	defer rows.Close()
	courses := []Course{}

	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan course: %w", err)
		}

		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Course, error) {
	return r.get(ctx, queryGetBySlug, slug)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Course, error) {
	return r.get(ctx, queryGetByID, id)
}

func (r *Repository) get(ctx context.Context, query, key string) (*Course, error) {
	course, err := scanCourse(r.db.QueryRow(ctx, query, key))

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCourseNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return course, nil
}

// builds the shared FROM/WHERE clause for the count and page queries
func buildWhere(filter ListFilter) (string, []any) {
	query := queryListBase
	args := []any{}
	argIndex := 1

	if search := strings.TrimSpace(filter.Search); search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+escapeLike(search)+"%")
		argIndex++
	}

	if filter.Level != "" {
		query += fmt.Sprintf(" AND level = $%d", argIndex)
		args = append(args, string(filter.Level))
		argIndex++
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
	}

	switch filter.Price {
	case PriceFree:
		query += " AND is_free = TRUE"
	case PricePaid:
		query += " AND is_free = FALSE"
	}

	return query, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanCourse(row pgx.Row) (*Course, error) {
	var (
		c     Course
		level string
	)

	err := row.Scan(
		&c.ID,
		&c.Slug,
		&c.Title,
		&c.Description,
		&c.Thumbnail,
		&c.PriceCents,
		&c.Currency,
		&level,
		&c.DurationMinutes,
		&c.Instructor,
		&c.Category,
		&c.Rating,
		&c.ReviewCount,
		&c.IsFree,
		&c.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	c.Level = Level(level)
	return &c, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	q Querier
}

// NewCourseRepository creates a CourseRepository that runs against q.
func NewCourseRepository(q Querier) *CourseRepository {
	return &CourseRepository{q: q}
}

const courseColumns = `c.id, c.name, c.start_time, c.end_time, c.price`

// Create inserts a course and sets its ID.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	query := `
		INSERT INTO courses (name, start_time, end_time, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, c.Name, c.StartTime, c.EndTime, c.Price).Scan(&c.ID)
	if err != nil {
		if IsCheckViolation(err) {
			return shared.WrapError("course", "Create", shared.ErrValidation, "course violates schema constraints", err)
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID returns a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE c.id = $1`
	return scanCourse(r.q.QueryRow(ctx, query, id))
}

// Update overwrites a course's mutable fields.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	query := `
		UPDATE courses SET
			name = $1,
			start_time = $2,
			end_time = $3,
			price = $4,
			updated_at = $5
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query, c.Name, c.StartTime, c.EndTime, c.Price, time.Now().UTC(), c.ID)
	if err != nil {
		if IsCheckViolation(err) {
			return shared.WrapError("course", "Update", shared.ErrValidation, "course violates schema constraints", err)
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return course.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Registrations are removed by ON DELETE CASCADE.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return course.ErrCourseNotFound
	}

	return nil
}

// List returns courses ordered by start time, then ID.
func (r *CourseRepository) List(ctx context.Context, opts shared.ListOptions) ([]*course.Course, error) {
	opts = opts.Normalize()
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		ORDER BY c.start_time, c.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return collectCourses(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	err := row.Scan(&c.ID, &c.Name, &c.StartTime, &c.EndTime, &c.Price)
	if err != nil {
		if IsNoRows(err) {
			return nil, course.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	c.StartTime = c.StartTime.UTC()
	c.EndTime = c.EndTime.UTC()
	return &c, nil
}

func collectCourses(rows pgx.Rows) ([]*course.Course, error) {
	defer rows.Close()

	courses := make([]*course.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}

	return courses, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/pkg/timeutil"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// RegistrationRepository implements registration.Repository for PostgreSQL.
type RegistrationRepository struct {
	q Querier
}

// NewRegistrationRepository creates a RegistrationRepository that runs against q.
func NewRegistrationRepository(q Querier) *RegistrationRepository {
	return &RegistrationRepository{q: q}
}

const registrationColumns = `id, student_id, course_id, price, registered_at`

// Create inserts a registration and sets its ID. RegisteredAt is truncated to
// the microsecond precision of timestamptz so reg matches the stored row.
// A (student_id, course_id) unique violation becomes ErrRegistrationExists.
func (r *RegistrationRepository) Create(ctx context.Context, reg *registration.Registration) error {
	reg.RegisteredAt = timeutil.TruncateToMicro(reg.RegisteredAt)

	query := `
		INSERT INTO registrations (student_id, course_id, price, registered_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query, reg.StudentID, reg.CourseID, reg.Price, reg.RegisteredAt).Scan(&reg.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return registration.ErrRegistrationExists
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}

	return nil
}

// GetByStudentAndCourse returns the registration for the pair.
func (r *RegistrationRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*registration.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE student_id = $1 AND course_id = $2
	`
	return scanRegistration(r.q.QueryRow(ctx, query, studentID, courseID))
}

// DeleteByStudentAndCourse removes the registration for the pair.
func (r *RegistrationRepository) DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int64) error {
	result, err := r.q.Exec(ctx,
		`DELETE FROM registrations WHERE student_id = $1 AND course_id = $2`,
		studentID, courseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}

	if result.RowsAffected() == 0 {
		return registration.ErrRegistrationNotFound
	}

	return nil
}

// FindOngoingCourses returns the student's courses with start_time <= now <= end_time.
func (r *RegistrationRepository) FindOngoingCourses(ctx context.Context, studentID int64, now time.Time) ([]*course.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		JOIN registrations r ON r.course_id = c.id
		WHERE r.student_id = $1 AND c.start_time <= $2 AND c.end_time >= $2
		ORDER BY c.start_time, c.id
	`

	rows, err := r.q.Query(ctx, query, studentID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query ongoing courses: %w", err)
	}

	return collectCourses(rows)
}

// FindUpcomingCourses returns the student's courses with start_time > now.
func (r *RegistrationRepository) FindUpcomingCourses(ctx context.Context, studentID int64, now time.Time) ([]*course.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses c
		JOIN registrations r ON r.course_id = c.id
		WHERE r.student_id = $1 AND c.start_time > $2
		ORDER BY c.start_time, c.id
	`

	rows, err := r.q.Query(ctx, query, studentID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming courses: %w", err)
	}

	return collectCourses(rows)
}

func scanRegistration(row pgx.Row) (*registration.Registration, error) {
	var reg registration.Registration
	err := row.Scan(&reg.ID, &reg.StudentID, &reg.CourseID, &reg.Price, &reg.RegisteredAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to scan registration: %w", err)
	}
	reg.RegisteredAt = reg.RegisteredAt.UTC()
	return &reg, nil
}

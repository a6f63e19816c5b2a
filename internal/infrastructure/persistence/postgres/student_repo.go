package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	q Querier
}

// NewStudentRepository creates a StudentRepository that runs against q
// (a *Connection or a pgx.Tx).
func NewStudentRepository(q Querier) *StudentRepository {
	return &StudentRepository{q: q}
}

const studentColumns = `id, email, first_name, last_name, created_at`

// Create inserts a new student and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (email, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRow(ctx, query, s.Email, s.FirstName, s.LastName, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("student", "Create", shared.ErrAlreadyExists,
				fmt.Sprintf("Student with email %s already exists", s.Email), student.ErrStudentAlreadyExists)
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanStudent(r.q.QueryRow(ctx, query, id))
}

// GetByEmail returns a student by email.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE email = $1`
	return r.scanStudent(r.q.QueryRow(ctx, query, email))
}

// List returns students ordered by ID.
func (r *StudentRepository) List(ctx context.Context, opts shared.ListOptions) ([]*student.Student, error) {
	opts = opts.Normalize()
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	err := row.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return &s, nil
}

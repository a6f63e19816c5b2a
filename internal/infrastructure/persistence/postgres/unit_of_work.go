package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWorkFactory implements registration.UnitOfWorkFactory on top of pgx
// transactions.
type UnitOfWorkFactory struct {
	conn *Connection
	opts TxOptions
}

// NewUnitOfWorkFactory creates a factory that starts READ COMMITTED transactions.
func NewUnitOfWorkFactory(conn *Connection) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{conn: conn, opts: DefaultTxOptions()}
}

// Begin starts a transaction and binds the three repositories to it.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (registration.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx, f.opts)
	if err != nil {
		return nil, err
	}

	return &unitOfWork{
		tx:            tx,
		courses:       NewCourseRepository(tx),
		students:      NewStudentRepository(tx),
		registrations: NewRegistrationRepository(tx),
	}, nil
}

type unitOfWork struct {
	tx            pgx.Tx
	courses       *CourseRepository
	students      *StudentRepository
	registrations *RegistrationRepository
}

func (u *unitOfWork) Courses() course.Repository             { return u.courses }
func (u *unitOfWork) Students() student.Repository           { return u.students }
func (u *unitOfWork) Registrations() registration.Repository { return u.registrations }

func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		if IsUniqueViolation(err) {
			return registration.ErrRegistrationExists
		}
		return fmt.Errorf("commit error: %w", err)
	}
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback error: %w", err)
	}
	return nil
}

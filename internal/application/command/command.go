// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/internal/infrastructure/metrics"
	"github.com/alem-hub/course-registration/internal/infrastructure/tracing"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT MESSAGES
// ══════════════════════════════════════════════════════════════════════════════

// Messages returned to API clients verbatim.
const (
	MsgStudentNotFound        = "Student with email %s not found"
	MsgCourseNotFound         = "Course with id %d not found"
	MsgRegisterStarted        = "Cannot register for a course that has already started"
	MsgUnregisterStarted      = "Cannot unregister from a course that has already started"
	MsgAlreadyRegistered      = "Student is already registered for this course"
	MsgNotRegistered          = "Student is not registered for this course"
	MsgStudentExists          = "Student with email %s already exists"
	MsgUnregisteredSuccessful = "Unregistered successfully"
)

// ══════════════════════════════════════════════════════════════════════════════
// INSTRUMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// Instrumentation bundles the logger, tracer and metrics a handler reports to.
// Zero fields fall back to slog.Default, a no-op tracer and no metrics.
type Instrumentation struct {
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *metrics.Metrics
}

func (i Instrumentation) withDefaults() Instrumentation {
	if i.Logger == nil {
		i.Logger = slog.Default()
	}
	if i.Tracer == nil {
		i.Tracer = tracing.NoopTracer()
	}
	return i
}

// resultOf classifies an error for the workflow counters.
func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case shared.IsNotFound(err), shared.IsInvalidState(err),
		shared.IsAlreadyExists(err), shared.IsValidation(err):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

// finishSpan records err on span. Business rejections are recorded as events,
// only unexpected failures mark the span as errored.
func finishSpan(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	if resultOf(err) == metrics.ResultError {
		span.SetStatus(codes.Error, err.Error())
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// runInUnitOfWork runs fn in a new unit of work. It commits when fn returns
// nil and rolls back when fn fails or panics; a panic is re-raised.
func runInUnitOfWork(
	ctx context.Context,
	factory registration.UnitOfWorkFactory,
	fn func(uow registration.UnitOfWork) error,
) (err error) {
	uow, err := factory.Begin(ctx)
	if err != nil {
		if timeout := asTimeout("Begin", err); timeout != err {
			return timeout
		}
		return shared.WrapError("registration", "Begin", shared.ErrServiceUnavailable,
			"storage unavailable", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return asTimeout("Run", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return asTimeout("Commit", fmt.Errorf("commit unit of work: %w", err))
	}
	return nil
}

// asTimeout marks an error caused by an expired request deadline as
// ErrTimeout. Business rejections and other errors pass through unchanged.
func asTimeout(op string, err error) error {
	if resultOf(err) == metrics.ResultRejected || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return shared.WrapError("registration", op, shared.ErrTimeout, "operation timed out", err)
}

// ══════════════════════════════════════════════════════════════════════════════
// LOOKUPS
// ══════════════════════════════════════════════════════════════════════════════

// findStudent resolves a student by email. A missing student becomes a
// NotFound error carrying the client message.
func findStudent(ctx context.Context, repo student.Repository, op, email string) (*student.Student, error) {
	s, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return nil, shared.WrapError("registration", op, shared.ErrNotFound,
				fmt.Sprintf(MsgStudentNotFound, email), err)
		}
		return nil, fmt.Errorf("%s: find student: %w", op, err)
	}
	return s, nil
}

// findCourse resolves a course by id. A missing course becomes a NotFound
// error carrying the client message.
func findCourse(ctx context.Context, repo course.Repository, op string, id int64) (*course.Course, error) {
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return nil, shared.WrapError("registration", op, shared.ErrNotFound,
				fmt.Sprintf(MsgCourseNotFound, id), err)
		}
		return nil, fmt.Errorf("%s: find course: %w", op, err)
	}
	return c, nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/infrastructure/metrics"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNREGISTER COURSE COMMAND
// Removes a student's registration for a course that has not started yet.
// ══════════════════════════════════════════════════════════════════════════════

// UnregisterCourseCommand contains the data to unregister a student.
type UnregisterCourseCommand struct {
	// CourseID identifies the course.
	CourseID int64

	// Email identifies the student.
	Email string
}

// Validate validates the command.
func (c UnregisterCourseCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return shared.Validationf("registration", "Unregister", "email is required")
	}
	return nil
}

// UnregisterCourseResult contains the result of an unregistration.
type UnregisterCourseResult struct {
	// Unregistered is always true on success.
	Unregistered bool

	// StudentID and CourseID identify the removed registration.
	StudentID int64
	CourseID  int64
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UnregisterCourseHandler handles the UnregisterCourseCommand.
type UnregisterCourseHandler struct {
	uow   registration.UnitOfWorkFactory
	clock timeutil.Clock
	inst  Instrumentation
}

// NewUnregisterCourseHandler creates a new UnregisterCourseHandler.
func NewUnregisterCourseHandler(
	uow registration.UnitOfWorkFactory,
	clock timeutil.Clock,
	inst Instrumentation,
) *UnregisterCourseHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &UnregisterCourseHandler{
		uow:   uow,
		clock: clock,
		inst:  inst.withDefaults(),
	}
}

// Handle executes the unregister course command.
func (h *UnregisterCourseHandler) Handle(ctx context.Context, cmd UnregisterCourseCommand) (result *UnregisterCourseResult, err error) {
	ctx, span := h.inst.Tracer.Start(ctx, "UnregisterCourse",
		trace.WithAttributes(attribute.Int64("course.id", cmd.CourseID)))
	defer func() {
		finishSpan(span, err)
		span.End()
		h.inst.Metrics.Unregistration(resultOf(err))
	}()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	result = &UnregisterCourseResult{CourseID: cmd.CourseID}

	err = runInUnitOfWork(ctx, h.uow, func(uow registration.UnitOfWork) error {
		s, err := findStudent(ctx, uow.Students(), "Unregister", cmd.Email)
		if err != nil {
			return err
		}

		c, err := findCourse(ctx, uow.Courses(), "Unregister", cmd.CourseID)
		if err != nil {
			return err
		}

		if c.HasStarted(now) {
			return shared.InvalidStatef("registration", "Unregister", MsgUnregisterStarted)
		}

		regs := uow.Registrations()

		if _, err := regs.GetByStudentAndCourse(ctx, s.ID, c.ID); err != nil {
			if errors.Is(err, registration.ErrRegistrationNotFound) {
				return shared.InvalidStatef("registration", "Unregister", MsgNotRegistered)
			}
			return fmt.Errorf("unregister: find registration: %w", err)
		}

		if err := regs.DeleteByStudentAndCourse(ctx, s.ID, c.ID); err != nil {
			if errors.Is(err, registration.ErrRegistrationNotFound) {
				return shared.InvalidStatef("registration", "Unregister", MsgNotRegistered)
			}
			return fmt.Errorf("unregister: delete registration: %w", err)
		}

		result.StudentID = s.ID
		result.Unregistered = true
		return nil
	})

	if err != nil {
		if resultOf(err) == metrics.ResultError {
			h.inst.Logger.ErrorContext(ctx, "unregistration failed",
				"course_id", cmd.CourseID, "error", err)
		} else {
			h.inst.Logger.InfoContext(ctx, "unregistration rejected",
				"course_id", cmd.CourseID, "reason", shared.Message(err))
		}
		return nil, err
	}

	h.inst.Logger.InfoContext(ctx, "course unregistered",
		"student_id", result.StudentID,
		"course_id", result.CourseID,
	)

	return result, nil
}

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/infrastructure/metrics"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER COURSE COMMAND
// Registers a student for a course that has not started yet and returns the
// student's upcoming courses. Students with two or more ongoing courses pay
// the loyalty price.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCourseCommand contains the data to register a student for a course.
type RegisterCourseCommand struct {
	// Email identifies the student.
	Email string

	// CourseID identifies the course.
	CourseID int64
}

// Validate validates the command.
func (c RegisterCourseCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return shared.Validationf("registration", "Register", "email is required")
	}
	return nil
}

// RegisterCourseResult contains the result of a registration.
type RegisterCourseResult struct {
	// UpcomingCourses are the student's courses starting after now,
	// ordered by start time, including the one just registered.
	UpcomingCourses []*course.Course

	// Registration is the created registration.
	Registration *registration.Registration

	// DiscountApplied indicates the loyalty price was charged.
	DiscountApplied bool
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCourseHandler handles the RegisterCourseCommand.
type RegisterCourseHandler struct {
	uow   registration.UnitOfWorkFactory
	clock timeutil.Clock
	inst  Instrumentation
}

// NewRegisterCourseHandler creates a new RegisterCourseHandler.
func NewRegisterCourseHandler(
	uow registration.UnitOfWorkFactory,
	clock timeutil.Clock,
	inst Instrumentation,
) *RegisterCourseHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &RegisterCourseHandler{
		uow:   uow,
		clock: clock,
		inst:  inst.withDefaults(),
	}
}

// Handle executes the register course command.
func (h *RegisterCourseHandler) Handle(ctx context.Context, cmd RegisterCourseCommand) (result *RegisterCourseResult, err error) {
	ctx, span := h.inst.Tracer.Start(ctx, "RegisterCourse",
		trace.WithAttributes(attribute.Int64("course.id", cmd.CourseID)))
	defer func() {
		finishSpan(span, err)
		span.End()
		h.inst.Metrics.Registration(resultOf(err))
	}()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	result = &RegisterCourseResult{}

	err = runInUnitOfWork(ctx, h.uow, func(uow registration.UnitOfWork) error {
		s, err := findStudent(ctx, uow.Students(), "Register", cmd.Email)
		if err != nil {
			return err
		}

		c, err := findCourse(ctx, uow.Courses(), "Register", cmd.CourseID)
		if err != nil {
			return err
		}

		if c.HasStarted(now) {
			return shared.InvalidStatef("registration", "Register", MsgRegisterStarted)
		}

		regs := uow.Registrations()

		_, err = regs.GetByStudentAndCourse(ctx, s.ID, c.ID)
		switch {
		case err == nil:
			return shared.InvalidStatef("registration", "Register", MsgAlreadyRegistered)
		case !errors.Is(err, registration.ErrRegistrationNotFound):
			return fmt.Errorf("register: check registration: %w", err)
		}

		ongoing, err := regs.FindOngoingCourses(ctx, s.ID, now)
		if err != nil {
			return fmt.Errorf("register: find ongoing courses: %w", err)
		}

		price := registration.Price(c.Price, len(ongoing))
		reg := registration.New(s.ID, c.ID, price, now)
		if err := regs.Create(ctx, reg); err != nil {
			return err
		}

		upcoming, err := regs.FindUpcomingCourses(ctx, s.ID, now)
		if err != nil {
			return fmt.Errorf("register: find upcoming courses: %w", err)
		}

		result.UpcomingCourses = upcoming
		result.Registration = reg
		result.DiscountApplied = registration.DiscountApplies(len(ongoing))
		return nil
	})

	if err != nil {
		if errors.Is(err, registration.ErrRegistrationExists) {
			err = shared.WrapError("registration", "Register", shared.ErrAlreadyExists, MsgAlreadyRegistered, err)
		}
		h.logFailure(ctx, cmd, err)
		return nil, err
	}

	if result.DiscountApplied {
		h.inst.Metrics.DiscountApplied()
	}

	h.inst.Logger.InfoContext(ctx, "course registered",
		"student_id", result.Registration.StudentID,
		"course_id", result.Registration.CourseID,
		"price", result.Registration.Price,
		"discount", result.DiscountApplied,
	)

	return result, nil
}

func (h *RegisterCourseHandler) logFailure(ctx context.Context, cmd RegisterCourseCommand, err error) {
	if resultOf(err) == metrics.ResultError {
		h.inst.Logger.ErrorContext(ctx, "registration failed",
			"course_id", cmd.CourseID, "error", err)
		return
	}
	h.inst.Logger.InfoContext(ctx, "registration rejected",
		"course_id", cmd.CourseID, "reason", shared.Message(err))
}

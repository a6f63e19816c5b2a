package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

// CreateStudentCommand contains the data to create a student.
type CreateStudentCommand struct {
	Email     string
	FirstName string
	LastName  string
}

// CreateStudentHandler handles the CreateStudentCommand.
type CreateStudentHandler struct {
	students student.Repository
	clock    timeutil.Clock
	logger   *slog.Logger
}

// NewCreateStudentHandler creates a new CreateStudentHandler.
func NewCreateStudentHandler(students student.Repository, clock timeutil.Clock, logger *slog.Logger) *CreateStudentHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateStudentHandler{students: students, clock: clock, logger: logger}
}

// Handle validates and stores the student.
func (h *CreateStudentHandler) Handle(ctx context.Context, cmd CreateStudentCommand) (*student.Student, error) {
	s, err := student.NewStudent(student.NewStudentParams{
		Email:     cmd.Email,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		CreatedAt: h.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if err := h.students.Create(ctx, s); err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, shared.WrapError("student", "Create", shared.ErrAlreadyExists,
				fmt.Sprintf(MsgStudentExists, s.Email), err)
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	h.logger.InfoContext(ctx, "student created", "student_id", s.ID)
	return s, nil
}

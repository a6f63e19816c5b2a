// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

// Сообщения для клиентов API.
const (
	msgStudentNotFound = "Student with email %s not found"
	msgCourseNotFound  = "Course with id %d not found"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET UPCOMING COURSES QUERY
// Возвращает предстоящие курсы студента - тот же список, что и ответ на запись.
// ══════════════════════════════════════════════════════════════════════════════

// GetUpcomingCoursesQuery содержит параметры запроса.
type GetUpcomingCoursesQuery struct {
	// Email - email студента.
	Email string
}

// Validate проверяет корректность параметров запроса.
func (q GetUpcomingCoursesQuery) Validate() error {
	if strings.TrimSpace(q.Email) == "" {
		return shared.Validationf("student", "UpcomingCourses", "email is required")
	}
	return nil
}

// GetUpcomingCoursesHandler обрабатывает запрос предстоящих курсов.
type GetUpcomingCoursesHandler struct {
	students      student.Repository
	registrations registration.Repository
	clock         timeutil.Clock
}

// NewGetUpcomingCoursesHandler создаёт новый обработчик.
func NewGetUpcomingCoursesHandler(
	students student.Repository,
	registrations registration.Repository,
	clock timeutil.Clock,
) *GetUpcomingCoursesHandler {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &GetUpcomingCoursesHandler{
		students:      students,
		registrations: registrations,
		clock:         clock,
	}
}

// Handle выполняет запрос.
func (h *GetUpcomingCoursesHandler) Handle(ctx context.Context, q GetUpcomingCoursesQuery) ([]*course.Course, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s, err := h.students.GetByEmail(ctx, q.Email)
	if err != nil {
		if errors.Is(err, student.ErrStudentNotFound) {
			return nil, shared.WrapError("student", "UpcomingCourses", shared.ErrNotFound,
				fmt.Sprintf(msgStudentNotFound, q.Email), err)
		}
		return nil, fmt.Errorf("upcoming courses: find student: %w", err)
	}

	courses, err := h.registrations.FindUpcomingCourses(ctx, s.ID, h.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("upcoming courses: %w", err)
	}
	return courses, nil
}

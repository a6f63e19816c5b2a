package query

import (
	"context"
	"fmt"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ListCoursesQuery содержит параметры пагинации.
type ListCoursesQuery struct {
	Limit  int
	Offset int
}

// ListCoursesResult - страница курсов, упорядоченных по времени начала.
type ListCoursesResult struct {
	Courses []*course.Course
	Limit   int
	Offset  int
}

// ListCoursesHandler обрабатывает запрос списка курсов.
type ListCoursesHandler struct {
	courses course.Repository
}

// NewListCoursesHandler создаёт новый обработчик.
func NewListCoursesHandler(courses course.Repository) *ListCoursesHandler {
	return &ListCoursesHandler{courses: courses}
}

// Handle выполняет запрос.
func (h *ListCoursesHandler) Handle(ctx context.Context, q ListCoursesQuery) (*ListCoursesResult, error) {
	opts := shared.ListOptions{Limit: q.Limit, Offset: q.Offset}.Normalize()

	courses, err := h.courses.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return &ListCoursesResult{
		Courses: courses,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}, nil
}

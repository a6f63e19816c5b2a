package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE ADMINISTRATION
// Create, update and delete courses. Every write evicts the cached course so
// the read side never serves a stale copy.
// ══════════════════════════════════════════════════════════════════════════════

// CourseInput holds the editable fields of a course.
type CourseInput struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Price     int64
}

func (in CourseInput) params() course.NewCourseParams {
	return course.NewCourseParams{
		Name:      in.Name,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Price:     in.Price,
	}
}

// CreateCourseCommand creates a course.
type CreateCourseCommand struct {
	CourseInput
}

// UpdateCourseCommand replaces the fields of an existing course.
type UpdateCourseCommand struct {
	ID int64
	CourseInput
}

// DeleteCourseCommand deletes a course and its registrations.
type DeleteCourseCommand struct {
	ID int64
}

// CourseAdmin handles the course administration commands.
type CourseAdmin struct {
	courses course.Repository
	cache   course.Cache
	logger  *slog.Logger
}

// NewCourseAdmin creates a new CourseAdmin. cache may be nil.
func NewCourseAdmin(courses course.Repository, cache course.Cache, logger *slog.Logger) *CourseAdmin {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseAdmin{courses: courses, cache: cache, logger: logger}
}

// Create validates and stores a new course.
func (h *CourseAdmin) Create(ctx context.Context, cmd CreateCourseCommand) (*course.Course, error) {
	c, err := course.NewCourse(cmd.params())
	if err != nil {
		return nil, err
	}

	if err := h.courses.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	h.logger.InfoContext(ctx, "course created", "course_id", c.ID, "name", c.Name)
	return c, nil
}

// Update validates and replaces an existing course.
func (h *CourseAdmin) Update(ctx context.Context, cmd UpdateCourseCommand) (*course.Course, error) {
	c, err := course.NewCourse(cmd.params())
	if err != nil {
		return nil, err
	}
	c.ID = cmd.ID

	if err := h.courses.Update(ctx, c); err != nil {
		return nil, h.courseError("Update", cmd.ID, err)
	}

	h.evict(ctx, c.ID)
	h.logger.InfoContext(ctx, "course updated", "course_id", c.ID)
	return c, nil
}

// Delete removes a course together with its registrations.
func (h *CourseAdmin) Delete(ctx context.Context, cmd DeleteCourseCommand) error {
	if err := h.courses.Delete(ctx, cmd.ID); err != nil {
		return h.courseError("Delete", cmd.ID, err)
	}

	h.evict(ctx, cmd.ID)
	h.logger.InfoContext(ctx, "course deleted", "course_id", cmd.ID)
	return nil
}

func (h *CourseAdmin) courseError(op string, id int64, err error) error {
	if errors.Is(err, course.ErrCourseNotFound) {
		return shared.WrapError("course", op, shared.ErrNotFound, fmt.Sprintf(MsgCourseNotFound, id), err)
	}
	return fmt.Errorf("%s course: %w", op, err)
}

func (h *CourseAdmin) evict(ctx context.Context, id int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "course cache eviction failed", "course_id", id, "error", err)
	}
}

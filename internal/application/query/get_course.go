package query

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
// GET COURSE QUERY
// Читает курс через кеш (cache-aside): промах идёт в хранилище и заполняет кеш.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultCourseCacheTTL - время жизни курса в кеше.
const DefaultCourseCacheTTL = 10 * time.Minute

// GetCourseQuery содержит параметры запроса курса.
type GetCourseQuery struct {
	ID int64
}

// GetCourseHandler обрабатывает запрос курса.
type GetCourseHandler struct {
	courses course.Repository
	cache   course.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewGetCourseHandler создаёт новый обработчик. cache может быть nil.
func NewGetCourseHandler(courses course.Repository, cache course.Cache, ttl time.Duration, logger *slog.Logger) *GetCourseHandler {
	if ttl <= 0 {
		ttl = DefaultCourseCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GetCourseHandler{courses: courses, cache: cache, ttl: ttl, logger: logger}
}

// Handle выполняет запрос.
func (h *GetCourseHandler) Handle(ctx context.Context, q GetCourseQuery) (*course.Course, error) {
	if h.cache != nil {
		if c, ok := h.cache.Get(ctx, q.ID); ok {
			return c, nil
		}
	}

	c, err := h.courses.GetByID(ctx, q.ID)
	if err != nil {
		if errors.Is(err, course.ErrCourseNotFound) {
			return nil, shared.WrapError("course", "Get", shared.ErrNotFound,
				fmt.Sprintf(msgCourseNotFound, q.ID), err)
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, c, h.ttl); err != nil {
			h.logger.WarnContext(ctx, "course cache write failed", "course_id", c.ID, "error", err)
		}
	}
	return c, nil
}

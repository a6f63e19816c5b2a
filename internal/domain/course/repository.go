package course

import (
	"context"
	"sort"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// Repository определяет CRUD-операции хранилища курсов.
type Repository interface {
	// Create сохраняет курс и заполняет c.ID.
	Create(ctx context.Context, c *Course) error

	// GetByID возвращает курс по ID.
	// Возвращает ErrCourseNotFound, если курс не найден.
	GetByID(ctx context.Context, id int64) (*Course, error)

	// Update обновляет курс.
	// Возвращает ErrCourseNotFound, если курс не найден.
	Update(ctx context.Context, c *Course) error

	// Delete удаляет курс вместе с записями на него.
	// Возвращает ErrCourseNotFound, если курс не найден.
	Delete(ctx context.Context, id int64) error

	// List возвращает курсы, упорядоченные по времени начала, затем по ID.
	List(ctx context.Context, opts shared.ListOptions) ([]*Course, error)
}

// Cache - кеш курсов для чтения (cache-aside).
// Get возвращает (nil, false) при промахе.
type Cache interface {
	Get(ctx context.Context, id int64) (*Course, bool)
	Set(ctx context.Context, c *Course, ttl time.Duration) error
	Delete(ctx context.Context, id int64) error
}

// SortByStart упорядочивает курсы по времени начала, затем по ID.
// Все хранилища возвращают списки в этом порядке.
func SortByStart(courses []*Course) {
	sort.SliceStable(courses, func(i, j int) bool {
		if !courses[i].StartTime.Equal(courses[j].StartTime) {
			return courses[i].StartTime.Before(courses[j].StartTime)
		}
		return courses[i].ID < courses[j].ID
	})
}

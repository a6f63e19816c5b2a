package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/pkg/circuitbreaker"
)

// CourseCache implements course.Cache using the generic Redis Cache.
// Redis failures degrade to cache misses so reads fall through to the store.
type CourseCache struct {
	cache   *Cache
	logger  *slog.Logger
	breaker *circuitbreaker.Breaker
}

// NewCourseCache creates a new CourseCache.
func NewCourseCache(cache *Cache, logger *slog.Logger) *CourseCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseCache{cache: cache, logger: logger}
}

// WithBreaker routes Get, Set and Delete through b. While b is open those
// calls skip Redis entirely. Ping always reaches Redis.
func (c *CourseCache) WithBreaker(b *circuitbreaker.Breaker) *CourseCache {
	c.breaker = b
	return c
}

func (c *CourseCache) guard(ctx context.Context, fn func(context.Context) error) error {
	if c.breaker == nil {
		return fn(ctx)
	}
	return c.breaker.Execute(ctx, fn)
}

// Get gets a course from cache.
func (c *CourseCache) Get(ctx context.Context, id int64) (*course.Course, bool) {
	var crs course.Course
	err := c.guard(ctx, func(ctx context.Context) error {
		err := c.cache.Get(ctx, CourseKey(id), &crs)
		if errors.Is(err, ErrCacheMiss) {
			return errMiss
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, errMiss) && !circuitbreaker.IsRejected(err) {
			c.logger.Warn("course cache read failed", "course_id", id, "error", err)
		}
		return nil, false
	}
	return &crs, true
}

// Set stores a course. A zero ttl uses TTLCourseCache.
func (c *CourseCache) Set(ctx context.Context, crs *course.Course, ttl time.Duration) error {
	if crs == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = TTLCourseCache
	}
	return c.guard(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, CourseKey(crs.ID), crs, ttl)
	})
}

// Delete evicts a course.
func (c *CourseCache) Delete(ctx context.Context, id int64) error {
	return c.guard(ctx, func(ctx context.Context) error {
		return c.cache.Delete(ctx, CourseKey(id))
	})
}

// Ping checks Redis connectivity.
func (c *CourseCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}

// errMiss is a miss seen through the breaker; it is not a failure.
var errMiss = errors.New("course cache miss")

// IsBreakerFailure counts everything but plain misses against the breaker.
func IsBreakerFailure(err error) bool {
	return !errors.Is(err, errMiss)
}

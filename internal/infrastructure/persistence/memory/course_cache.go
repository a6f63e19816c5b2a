package memory

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/alem-hub/course-registration/internal/domain/course"
)

const (
	// DefaultCourseTTL is how long a course stays cached when no TTL is given.
	DefaultCourseTTL = 10 * time.Minute

	// DefaultCleanupInterval is how often expired entries are purged.
	DefaultCleanupInterval = 30 * time.Minute
)

// CourseCache implements course.Cache with an in-process go-cache.
// It is used when Redis is disabled.
type CourseCache struct {
	cache *gocache.Cache
}

// NewCourseCache creates a cache with the given default TTL and cleanup interval.
func NewCourseCache(defaultTTL, cleanupInterval time.Duration) *CourseCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultCourseTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &CourseCache{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func courseKey(id int64) string {
	return "course:" + strconv.FormatInt(id, 10)
}

// Get returns a copy of the cached course.
func (c *CourseCache) Get(ctx context.Context, id int64) (*course.Course, bool) {
	v, found := c.cache.Get(courseKey(id))
	if !found {
		return nil, false
	}
	cached, ok := v.(course.Course)
	if !ok {
		return nil, false
	}
	return &cached, true
}

// Set stores a copy of the course. A zero ttl uses the cache default.
func (c *CourseCache) Set(ctx context.Context, crs *course.Course, ttl time.Duration) error {
	if crs == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(courseKey(crs.ID), *crs, ttl)
	return nil
}

// Delete evicts the course.
func (c *CourseCache) Delete(ctx context.Context, id int64) error {
	c.cache.Delete(courseKey(id))
	return nil
}

// Ping always succeeds; it lets the cache join health checks.
func (c *CourseCache) Ping(ctx context.Context) error {
	return nil
}

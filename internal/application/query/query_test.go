package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// countingCourses counts GetByID calls that reach the store.
type countingCourses struct {
	course.Repository
	gets int
}

func (c *countingCourses) GetByID(ctx context.Context, id int64) (*course.Course, error) {
	c.gets++
	return c.Repository.GetByID(ctx, id)
}

func newCourse(t *testing.T, repo course.Repository, name string, startsIn time.Duration) *course.Course {
	t.Helper()
	c, err := course.NewCourse(course.NewCourseParams{
		Name:      name,
		StartTime: now.Add(startsIn),
		EndTime:   now.Add(startsIn + 24*time.Hour),
		Price:     100,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestGetCourse_CacheAside(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &countingCourses{Repository: store.Courses()}
	c := newCourse(t, store.Courses(), "Compilers", time.Hour)

	h := NewGetCourseHandler(repo, memory.NewCourseCache(time.Minute, time.Minute), 0, nil)

	first, err := h.Handle(ctx, GetCourseQuery{ID: c.ID})
	require.NoError(t, err)
	second, err := h.Handle(ctx, GetCourseQuery{ID: c.ID})
	require.NoError(t, err)

	assert.Equal(t, c.Name, first.Name)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.gets, "second read must be served from cache")
}

func TestGetCourse_WithoutCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := &countingCourses{Repository: store.Courses()}
	c := newCourse(t, store.Courses(), "Compilers", time.Hour)

	h := NewGetCourseHandler(repo, nil, time.Minute, nil)
	for range 3 {
		_, err := h.Handle(ctx, GetCourseQuery{ID: c.ID})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, repo.gets)
}

func TestGetCourse_NotFound(t *testing.T) {
	h := NewGetCourseHandler(memory.NewStore().Courses(), nil, 0, nil)

	_, err := h.Handle(context.Background(), GetCourseQuery{ID: 5})
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Course with id 5 not found", shared.Message(err))
}

func TestGetUpcomingCourses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	s, err := student.NewStudent(student.NewStudentParams{Email: "ada@example.com"})
	require.NoError(t, err)
	require.NoError(t, store.Students().Create(ctx, s))

	later := newCourse(t, store.Courses(), "Later", 48*time.Hour)
	sooner := newCourse(t, store.Courses(), "Sooner", 24*time.Hour)
	running := newCourse(t, store.Courses(), "Running", -time.Hour)
	for _, c := range []*course.Course{later, sooner, running} {
		require.NoError(t, store.Registrations().Create(ctx, registration.New(s.ID, c.ID, c.Price, now)))
	}

	h := NewGetUpcomingCoursesHandler(store.Students(), store.Registrations(), timeutil.NewFixedClock(now))

	list, err := h.Handle(ctx, GetUpcomingCoursesQuery{Email: s.Email})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sooner.ID, list[0].ID)
	assert.Equal(t, later.ID, list[1].ID)

	_, err = h.Handle(ctx, GetUpcomingCoursesQuery{Email: "nobody@example.com"})
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Student with email nobody@example.com not found", shared.Message(err))

	_, err = h.Handle(ctx, GetUpcomingCoursesQuery{})
	assert.True(t, shared.IsValidation(err))
}

func TestListCourses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for i, name := range []string{"C", "A", "B"} {
		newCourse(t, store.Courses(), name, time.Duration(3-i)*time.Hour)
	}

	h := NewListCoursesHandler(store.Courses())

	res, err := h.Handle(ctx, ListCoursesQuery{})
	require.NoError(t, err)
	assert.Equal(t, shared.DefaultPageSize, res.Limit)
	require.Len(t, res.Courses, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{res.Courses[0].Name, res.Courses[1].Name, res.Courses[2].Name})

	page, err := h.Handle(ctx, ListCoursesQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Courses, 1)
	assert.Equal(t, "A", page.Courses[0].Name)
}

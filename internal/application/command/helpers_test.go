package command

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/internal/infrastructure/metrics"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	clock      *timeutil.FixedClock
	registry   *prometheus.Registry
	register   *RegisterCourseHandler
	unregister *UnregisterCourseHandler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t testing.TB) *fixture {
	t.Helper()

	store := memory.NewStore()
	clock := timeutil.NewFixedClock(now)
	reg := prometheus.NewRegistry()
	inst := Instrumentation{Logger: discardLogger(), Metrics: metrics.New(reg)}

	return &fixture{
		store:      store,
		clock:      clock,
		registry:   reg,
		register:   NewRegisterCourseHandler(store, clock, inst),
		unregister: NewUnregisterCourseHandler(store, clock, inst),
	}
}

func (f *fixture) student(t testing.TB, email string) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{Email: email, FirstName: "Test", CreatedAt: now})
	require.NoError(t, err)
	require.NoError(t, f.store.Students().Create(context.Background(), s))
	return s
}

// course creates a course starting at now+startsIn and lasting 30 days.
func (f *fixture) course(t testing.TB, name string, startsIn time.Duration, price int64) *course.Course {
	t.Helper()
	start := now.Add(startsIn)
	c, err := course.NewCourse(course.NewCourseParams{
		Name:      name,
		StartTime: start,
		EndTime:   start.Add(timeutil.Days(30)),
		Price:     price,
	})
	require.NoError(t, err)
	require.NoError(t, f.store.Courses().Create(context.Background(), c))
	return c
}

func fixedClock() *timeutil.FixedClock {
	return timeutil.NewFixedClock(now)
}

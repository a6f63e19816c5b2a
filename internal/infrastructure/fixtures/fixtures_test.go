package fixtures

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

const sample = `
students:
  - email: ada@example.com
    first_name: Ada
    last_name: Lovelace
courses:
  - name: Compilers
    starts_in: -24h
    duration: 240h
    price: 1000
  - name: Databases
    start_time: 2030-01-10T09:00:00Z
    end_time: 2030-02-10T09:00:00Z
    price: 2000
registrations:
  - email: ada@example.com
    course: Compilers
  - email: ada@example.com
    course: Databases
    price: 1500
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, f.Students, 1)
	require.Len(t, f.Courses, 2)
	require.Len(t, f.Registrations, 2)

	assert.Equal(t, -24*time.Hour, f.Courses[0].StartsIn)
	assert.Equal(t, 240*time.Hour, f.Courses[0].Duration)
	assert.Equal(t, time.Date(2030, 1, 10, 9, 0, 0, 0, time.UTC), f.Courses[1].StartTime.UTC())
	require.NotNil(t, f.Registrations[1].Price)
	assert.Equal(t, int64(1500), *f.Registrations[1].Price)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse(strings.NewReader("teachers: []\n"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Students)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()

	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	sum, err := f.Apply(ctx, store, timeutil.NewFixedClock(now))
	require.NoError(t, err)
	assert.Equal(t, Summary{Students: 1, Courses: 2, Registrations: 2}, sum)

	s, err := store.Students().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	ongoing, err := store.Registrations().FindOngoingCourses(ctx, s.ID, now)
	require.NoError(t, err)
	require.Len(t, ongoing, 1)
	assert.Equal(t, "Compilers", ongoing[0].Name)
	assert.Equal(t, now.Add(-24*time.Hour), ongoing[0].StartTime)

	var prices []int64
	for key, reg := range store.Snapshot() {
		assert.Equal(t, s.ID, key.StudentID)
		prices = append(prices, reg.Price)
	}
	assert.ElementsMatch(t, []int64{1000, 1500}, prices)
}

func TestApply_ReusesExistingStudent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	clock := timeutil.NewFixedClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	f := &File{Students: []Student{{Email: "ada@example.com"}}}

	_, err := f.Apply(ctx, store, clock)
	require.NoError(t, err)

	sum, err := f.Apply(ctx, store, clock)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Students)
}

func TestApply_UnknownReferenceRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	f := &File{
		Students:      []Student{{Email: "ada@example.com"}},
		Registrations: []Registration{{Email: "ada@example.com", Course: "Missing"}},
	}

	_, err := f.Apply(ctx, store, nil)
	require.Error(t, err)

	_, err = store.Students().GetByEmail(ctx, "ada@example.com")
	assert.Error(t, err, "failed apply must not leave partial state")
}

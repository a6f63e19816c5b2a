package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/memory"
)

type mockCourseCache struct {
	mock.Mock
}

func (m *mockCourseCache) Get(ctx context.Context, id int64) (*course.Course, bool) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*course.Course)
	return c, args.Bool(1)
}

func (m *mockCourseCache) Set(ctx context.Context, c *course.Course, ttl time.Duration) error {
	return m.Called(ctx, c, ttl).Error(0)
}

func (m *mockCourseCache) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func courseInput(name string) CourseInput {
	return CourseInput{
		Name:      name,
		StartTime: now.Add(24 * time.Hour),
		EndTime:   now.Add(48 * time.Hour),
		Price:     1000,
	}
}

func TestCourseAdmin_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := &mockCourseCache{}
	admin := NewCourseAdmin(store.Courses(), cache, discardLogger())

	created, err := admin.Create(ctx, CreateCourseCommand{CourseInput: courseInput("Compilers")})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	cache.On("Delete", ctx, created.ID).Return(nil).Twice()

	in := courseInput("Compilers II")
	in.Price = 2000
	updated, err := admin.Update(ctx, UpdateCourseCommand{ID: created.ID, CourseInput: in})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), updated.Price)

	stored, err := store.Courses().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Compilers II", stored.Name)

	require.NoError(t, admin.Delete(ctx, DeleteCourseCommand{ID: created.ID}))
	_, err = store.Courses().GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, course.ErrCourseNotFound)

	cache.AssertExpectations(t)
}

func TestCourseAdmin_DeleteCascadesRegistrations(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	admin := NewCourseAdmin(store.Courses(), nil, discardLogger())

	c, err := admin.Create(ctx, CreateCourseCommand{CourseInput: courseInput("Compilers")})
	require.NoError(t, err)
	require.NoError(t, store.Registrations().Create(ctx, registration.New(1, c.ID, 1000, now)))

	require.NoError(t, admin.Delete(ctx, DeleteCourseCommand{ID: c.ID}))
	assert.Empty(t, store.Snapshot())
}

func TestCourseAdmin_NotFound(t *testing.T) {
	ctx := context.Background()
	cache := &mockCourseCache{}
	admin := NewCourseAdmin(memory.NewStore().Courses(), cache, discardLogger())

	_, err := admin.Update(ctx, UpdateCourseCommand{ID: 7, CourseInput: courseInput("x")})
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Course with id 7 not found", shared.Message(err))

	err = admin.Delete(ctx, DeleteCourseCommand{ID: 7})
	assert.True(t, shared.IsNotFound(err))

	cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCourseAdmin_InvalidInput(t *testing.T) {
	admin := NewCourseAdmin(memory.NewStore().Courses(), nil, nil)

	in := courseInput("Compilers")
	in.EndTime = in.StartTime.Add(-time.Hour)
	_, err := admin.Create(context.Background(), CreateCourseCommand{CourseInput: in})
	assert.True(t, shared.IsValidation(err))
}

func TestCourseAdmin_EvictionFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := &mockCourseCache{}
	admin := NewCourseAdmin(store.Courses(), cache, discardLogger())

	c, err := admin.Create(ctx, CreateCourseCommand{CourseInput: courseInput("Compilers")})
	require.NoError(t, err)

	cache.On("Delete", ctx, c.ID).Return(errors.New("redis down"))
	assert.NoError(t, admin.Delete(ctx, DeleteCourseCommand{ID: c.ID}))
}

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	h := NewCreateStudentHandler(store.Students(), fixedClock(), discardLogger())

	s, err := h.Handle(ctx, CreateStudentCommand{Email: "ada@example.com", FirstName: "Ada"})
	require.NoError(t, err)
	assert.NotZero(t, s.ID)
	assert.Equal(t, now, s.CreatedAt)

	_, err = h.Handle(ctx, CreateStudentCommand{Email: "ada@example.com"})
	assert.True(t, shared.IsAlreadyExists(err))
	assert.Equal(t, "Student with email ada@example.com already exists", shared.Message(err))

	_, err = h.Handle(ctx, CreateStudentCommand{Email: "bad"})
	assert.True(t, shared.IsValidation(err))
}

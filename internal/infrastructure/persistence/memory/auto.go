package memory

import (
	"context"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

// The auto* repositories run every call in its own unit of work. They are
// what the read side and the admin commands use outside the workflow.

type autoStudents struct{ store *Store }

func (a *autoStudents) Create(ctx context.Context, s *student.Student) error {
	return a.store.within(ctx, func(t *tables) error {
		return (&studentRepo{t: t}).Create(ctx, s)
	})
}

func (a *autoStudents) GetByID(ctx context.Context, id int64) (found *student.Student, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		found, err = (&studentRepo{t: t}).GetByID(ctx, id)
		return err
	})
	return found, err
}

func (a *autoStudents) GetByEmail(ctx context.Context, email string) (found *student.Student, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		found, err = (&studentRepo{t: t}).GetByEmail(ctx, email)
		return err
	})
	return found, err
}

func (a *autoStudents) List(ctx context.Context, opts shared.ListOptions) (list []*student.Student, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		list, err = (&studentRepo{t: t}).List(ctx, opts)
		return err
	})
	return list, err
}

type autoCourses struct{ store *Store }

func (a *autoCourses) Create(ctx context.Context, c *course.Course) error {
	return a.store.within(ctx, func(t *tables) error {
		return (&courseRepo{t: t}).Create(ctx, c)
	})
}

func (a *autoCourses) GetByID(ctx context.Context, id int64) (found *course.Course, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		found, err = (&courseRepo{t: t}).GetByID(ctx, id)
		return err
	})
	return found, err
}

func (a *autoCourses) Update(ctx context.Context, c *course.Course) error {
	return a.store.within(ctx, func(t *tables) error {
		return (&courseRepo{t: t}).Update(ctx, c)
	})
}

func (a *autoCourses) Delete(ctx context.Context, id int64) error {
	return a.store.within(ctx, func(t *tables) error {
		return (&courseRepo{t: t}).Delete(ctx, id)
	})
}

func (a *autoCourses) List(ctx context.Context, opts shared.ListOptions) (list []*course.Course, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		list, err = (&courseRepo{t: t}).List(ctx, opts)
		return err
	})
	return list, err
}

type autoRegistrations struct{ store *Store }

func (a *autoRegistrations) Create(ctx context.Context, reg *registration.Registration) error {
	return a.store.within(ctx, func(t *tables) error {
		return (&registrationRepo{t: t}).Create(ctx, reg)
	})
}

func (a *autoRegistrations) GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (found *registration.Registration, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		found, err = (&registrationRepo{t: t}).GetByStudentAndCourse(ctx, studentID, courseID)
		return err
	})
	return found, err
}

func (a *autoRegistrations) DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int64) error {
	return a.store.within(ctx, func(t *tables) error {
		return (&registrationRepo{t: t}).DeleteByStudentAndCourse(ctx, studentID, courseID)
	})
}

func (a *autoRegistrations) FindOngoingCourses(ctx context.Context, studentID int64, now time.Time) (list []*course.Course, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		list, err = (&registrationRepo{t: t}).FindOngoingCourses(ctx, studentID, now)
		return err
	})
	return list, err
}

func (a *autoRegistrations) FindUpcomingCourses(ctx context.Context, studentID int64, now time.Time) (list []*course.Course, err error) {
	err = a.store.within(ctx, func(t *tables) error {
		list, err = (&registrationRepo{t: t}).FindUpcomingCourses(ctx, studentID, now)
		return err
	})
	return list, err
}


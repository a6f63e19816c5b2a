package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

type studentRepo struct {
	t *tables
}

func (r *studentRepo) Create(ctx context.Context, s *student.Student) error {
	for _, existing := range r.t.students {
		if existing.Email == s.Email {
			return shared.WrapError("student", "Create", shared.ErrAlreadyExists,
				fmt.Sprintf("Student with email %s already exists", s.Email), student.ErrStudentAlreadyExists)
		}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	s.ID = r.t.nextStudentID
	r.t.nextStudentID++
	r.t.students[s.ID] = *s
	return nil
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	s, ok := r.t.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return &s, nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*student.Student, error) {
	for _, s := range r.t.students {
		if s.Email == email {
			found := s
			return &found, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *studentRepo) List(ctx context.Context, opts shared.ListOptions) ([]*student.Student, error) {
	opts = opts.Normalize()
	all := make([]*student.Student, 0, len(r.t.students))
	for _, s := range r.t.students {
		s := s
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, opts), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSES
// ══════════════════════════════════════════════════════════════════════════════

type courseRepo struct {
	t *tables
}

func (r *courseRepo) Create(ctx context.Context, c *course.Course) error {
	c.ID = r.t.nextCourseID
	r.t.nextCourseID++
	r.t.courses[c.ID] = *c
	return nil
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*course.Course, error) {
	c, ok := r.t.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return &c, nil
}

func (r *courseRepo) Update(ctx context.Context, c *course.Course) error {
	if _, ok := r.t.courses[c.ID]; !ok {
		return course.ErrCourseNotFound
	}
	r.t.courses[c.ID] = *c
	return nil
}

// Delete removes the course and cascades its registrations.
func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.t.courses[id]; !ok {
		return course.ErrCourseNotFound
	}
	delete(r.t.courses, id)
	for k := range r.t.registrations {
		if k.CourseID == id {
			delete(r.t.registrations, k)
		}
	}
	return nil
}

func (r *courseRepo) List(ctx context.Context, opts shared.ListOptions) ([]*course.Course, error) {
	opts = opts.Normalize()
	all := make([]*course.Course, 0, len(r.t.courses))
	for _, c := range r.t.courses {
		c := c
		all = append(all, &c)
	}
	course.SortByStart(all)
	return page(all, opts), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATIONS
// ══════════════════════════════════════════════════════════════════════════════

type registrationRepo struct {
	t *tables
}

// Create enforces the (student, course) uniqueness the way the SQL constraint does.
func (r *registrationRepo) Create(ctx context.Context, reg *registration.Registration) error {
	if _, exists := r.t.registrations[reg.Key()]; exists {
		return registration.ErrRegistrationExists
	}
	reg.ID = r.t.nextRegistrationID
	r.t.nextRegistrationID++
	r.t.registrations[reg.Key()] = *reg
	return nil
}

func (r *registrationRepo) GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*registration.Registration, error) {
	reg, ok := r.t.registrations[registration.Key{StudentID: studentID, CourseID: courseID}]
	if !ok {
		return nil, registration.ErrRegistrationNotFound
	}
	return &reg, nil
}

func (r *registrationRepo) DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int64) error {
	key := registration.Key{StudentID: studentID, CourseID: courseID}
	if _, ok := r.t.registrations[key]; !ok {
		return registration.ErrRegistrationNotFound
	}
	delete(r.t.registrations, key)
	return nil
}

func (r *registrationRepo) FindOngoingCourses(ctx context.Context, studentID int64, now time.Time) ([]*course.Course, error) {
	return r.coursesOf(studentID, func(c *course.Course) bool { return c.IsOngoing(now) }), nil
}

func (r *registrationRepo) FindUpcomingCourses(ctx context.Context, studentID int64, now time.Time) ([]*course.Course, error) {
	return r.coursesOf(studentID, func(c *course.Course) bool { return c.IsUpcoming(now) }), nil
}

// coursesOf joins the student's registrations with courses and filters them.
func (r *registrationRepo) coursesOf(studentID int64, keep func(*course.Course) bool) []*course.Course {
	out := make([]*course.Course, 0)
	for key := range r.t.registrations {
		if key.StudentID != studentID {
			continue
		}
		c, ok := r.t.courses[key.CourseID]
		if !ok {
			continue
		}
		if keep(&c) {
			out = append(out, &c)
		}
	}
	course.SortByStart(out)
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func page[T any](items []T, opts shared.ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	end := opts.Offset + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[opts.Offset:end]
}

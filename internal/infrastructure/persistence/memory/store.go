// Package memory implements the course registration stores in process memory.
// It backs the service when no database URL is configured and serves as the
// store for workflow tests.
//
// A Store holds committed tables. A unit of work takes the store lock, works on
// a private copy of the tables and swaps the copy in on Commit, so concurrent
// units of work are serialized and a rollback leaves no trace.
package memory

import (
	"context"
	"sync"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

// tables is one consistent snapshot of all three stores.
type tables struct {
	students      map[int64]student.Student
	courses       map[int64]course.Course
	registrations map[registration.Key]registration.Registration

	nextStudentID      int64
	nextCourseID       int64
	nextRegistrationID int64
}

func newTables() *tables {
	return &tables{
		students:           make(map[int64]student.Student),
		courses:            make(map[int64]course.Course),
		registrations:      make(map[registration.Key]registration.Registration),
		nextStudentID:      1,
		nextCourseID:       1,
		nextRegistrationID: 1,
	}
}

// clone returns a deep copy. Entities are stored by value so copying the
// maps is enough.
func (t *tables) clone() *tables {
	c := &tables{
		students:           make(map[int64]student.Student, len(t.students)),
		courses:            make(map[int64]course.Course, len(t.courses)),
		registrations:      make(map[registration.Key]registration.Registration, len(t.registrations)),
		nextStudentID:      t.nextStudentID,
		nextCourseID:       t.nextCourseID,
		nextRegistrationID: t.nextRegistrationID,
	}
	for k, v := range t.students {
		c.students[k] = v
	}
	for k, v := range t.courses {
		c.courses[k] = v
	}
	for k, v := range t.registrations {
		c.registrations[k] = v
	}
	return c
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE
// ══════════════════════════════════════════════════════════════════════════════

// Store is an in-memory database for students, courses and registrations.
type Store struct {
	mu   sync.Mutex
	data *tables
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newTables()}
}

// Begin implements registration.UnitOfWorkFactory. The returned unit of work
// holds the store lock until Commit or Rollback.
func (s *Store) Begin(ctx context.Context) (registration.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	return &unitOfWork{store: s, data: s.data.clone()}, nil
}

// Ping reports the store as always reachable.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Snapshot returns copies of all registrations, keyed by (student, course).
// Used to assert that failed operations leave no trace.
func (s *Store) Snapshot() map[registration.Key]registration.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[registration.Key]registration.Registration, len(s.data.registrations))
	for k, v := range s.data.registrations {
		out[k] = v
	}
	return out
}

// Courses returns a repository that reads and writes committed state, each
// call in its own short unit of work.
func (s *Store) Courses() course.Repository { return &autoCourses{store: s} }

// Students returns a repository over committed state.
func (s *Store) Students() student.Repository { return &autoStudents{store: s} }

// Registrations returns a repository over committed state.
func (s *Store) Registrations() registration.Repository { return &autoRegistrations{store: s} }

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

type unitOfWork struct {
	store *Store
	data  *tables
	done  bool
}

func (u *unitOfWork) Courses() course.Repository             { return &courseRepo{t: u.data} }
func (u *unitOfWork) Students() student.Repository           { return &studentRepo{t: u.data} }
func (u *unitOfWork) Registrations() registration.Repository { return &registrationRepo{t: u.data} }

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.data = u.data
	u.store.mu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.mu.Unlock()
	return nil
}

// within runs fn in a fresh unit of work and commits on success.
func (s *Store) within(ctx context.Context, fn func(t *tables) error) error {
	uow, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	u := uow.(*unitOfWork)
	defer func() {
		if p := recover(); p != nil {
			_ = u.Rollback(ctx)
			panic(p)
		}
	}()
	if err := fn(u.data); err != nil {
		_ = u.Rollback(ctx)
		return err
	}
	return u.Commit(ctx)
}

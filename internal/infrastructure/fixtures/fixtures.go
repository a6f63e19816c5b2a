// Package fixtures loads students, courses and registrations from YAML and
// writes them to a store in a single unit of work.
//
//	students:
//	  - email: ada@example.com
//	    first_name: Ada
//	courses:
//	  - name: Distributed Systems
//	    starts_in: 72h        # relative to now, or start_time: 2026-01-10T09:00:00Z
//	    duration: 720h        # or end_time
//	    price: 1000000
//	registrations:
//	  - email: ada@example.com
//	    course: Distributed Systems
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/student"
	"github.com/alem-hub/course-registration/pkg/timeutil"
)

// File is the YAML document layout.
type File struct {
	Students      []Student      `yaml:"students"`
	Courses       []Course       `yaml:"courses"`
	Registrations []Registration `yaml:"registrations"`
}

// Student is a student fixture.
type Student struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

// Course is a course fixture. Times are either absolute or relative to now.
type Course struct {
	Name      string        `yaml:"name"`
	StartTime time.Time     `yaml:"start_time"`
	EndTime   time.Time     `yaml:"end_time"`
	StartsIn  time.Duration `yaml:"starts_in"`
	Duration  time.Duration `yaml:"duration"`
	Price     int64         `yaml:"price"`
}

// Registration links a fixture student to a fixture course by name.
// Price defaults to the course price.
type Registration struct {
	Email  string `yaml:"email"`
	Course string `yaml:"course"`
	Price  *int64 `yaml:"price"`
}

// Summary counts what Apply created.
type Summary struct {
	Students      int
	Courses       int
	Registrations int
}

// Parse decodes a fixture document, rejecting unknown keys.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	return &f, nil
}

// ParseFile reads and decodes the fixture file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// window resolves the course's time window against now.
func (c Course) window(now time.Time) (time.Time, time.Time) {
	start := c.StartTime
	if start.IsZero() {
		start = now.Add(c.StartsIn)
	}
	end := c.EndTime
	if end.IsZero() {
		end = start.Add(c.Duration)
	}
	return start.UTC(), end.UTC()
}

// Apply writes f in one unit of work. Students whose email already exists
// are reused rather than recreated.
func (f *File) Apply(ctx context.Context, factory registration.UnitOfWorkFactory, clock timeutil.Clock) (sum Summary, err error) {
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	now := clock.Now()

	uow, err := factory.Begin(ctx)
	if err != nil {
		return sum, fmt.Errorf("fixtures: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback(ctx)
		}
	}()

	studentIDs := make(map[string]int64, len(f.Students))
	for _, fs := range f.Students {
		existing, err := uow.Students().GetByEmail(ctx, fs.Email)
		if err == nil {
			studentIDs[fs.Email] = existing.ID
			continue
		}
		if !errors.Is(err, student.ErrStudentNotFound) {
			return sum, fmt.Errorf("fixtures: student %s: %w", fs.Email, err)
		}

		s, err := student.NewStudent(student.NewStudentParams{
			Email:     fs.Email,
			FirstName: fs.FirstName,
			LastName:  fs.LastName,
			CreatedAt: now,
		})
		if err != nil {
			return sum, fmt.Errorf("fixtures: student %s: %w", fs.Email, err)
		}
		if err := uow.Students().Create(ctx, s); err != nil {
			return sum, fmt.Errorf("fixtures: student %s: %w", fs.Email, err)
		}
		studentIDs[s.Email] = s.ID
		sum.Students++
	}

	courses := make(map[string]*course.Course, len(f.Courses))
	for _, fc := range f.Courses {
		start, end := fc.window(now)
		c, err := course.NewCourse(course.NewCourseParams{
			Name:      fc.Name,
			StartTime: start,
			EndTime:   end,
			Price:     fc.Price,
		})
		if err != nil {
			return sum, fmt.Errorf("fixtures: course %q: %w", fc.Name, err)
		}
		if err := uow.Courses().Create(ctx, c); err != nil {
			return sum, fmt.Errorf("fixtures: course %q: %w", fc.Name, err)
		}
		courses[c.Name] = c
		sum.Courses++
	}

	for _, fr := range f.Registrations {
		sid, ok := studentIDs[fr.Email]
		if !ok {
			return sum, fmt.Errorf("fixtures: registration references unknown student %s", fr.Email)
		}
		c, ok := courses[fr.Course]
		if !ok {
			return sum, fmt.Errorf("fixtures: registration references unknown course %q", fr.Course)
		}
		price := c.Price
		if fr.Price != nil {
			price = *fr.Price
		}
		if err := uow.Registrations().Create(ctx, registration.New(sid, c.ID, price, now)); err != nil {
			return sum, fmt.Errorf("fixtures: registration %s/%q: %w", fr.Email, fr.Course, err)
		}
		sum.Registrations++
	}

	if err := uow.Commit(ctx); err != nil {
		return sum, fmt.Errorf("fixtures: commit: %w", err)
	}
	return sum, nil
}

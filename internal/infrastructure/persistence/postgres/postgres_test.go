package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

// stubRow returns err from Scan, or assigns id to the first destination.
type stubRow struct {
	id  int64
	err error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int64); ok {
		*p = r.id
	}
	return nil
}

// stubRows yields each entry of rows in turn, assigning values by position.
type stubRows struct {
	rows   [][]any
	pos    int
	closed bool
}

func (r *stubRows) Close()                                       { r.closed = true }
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.closed || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Values() ([]any, error) { return r.rows[r.pos-1], nil }

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *string:
			*p = row[i].(string)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

// stubQuerier answers every statement with the configured row, rows or tag
// and records the statements and their arguments.
type stubQuerier struct {
	row      stubRow
	rows     *stubRows
	tag      pgconn.CommandTag
	execErr  error
	queryErr error
	sql      []string
	args     [][]any
}

func (q *stubQuerier) record(sql string, args []any) {
	q.sql = append(q.sql, sql)
	q.args = append(q.args, args)
}

func (q *stubQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.record(sql, args)
	return q.tag, q.execErr
}

func (q *stubQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.record(sql, args)
	if q.queryErr != nil {
		return nil, q.queryErr
	}
	if q.rows == nil {
		return &stubRows{}, nil
	}
	return q.rows, nil
}

func (q *stubQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.record(sql, args)
	return q.row
}

// normalizeSQL collapses whitespace so statements compare on one line.
func normalizeSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func TestErrorHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(errors.Join(errors.New("insert"), unique)))
	assert.False(t, IsUniqueViolation(errors.New("boom")))

	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()

	q := &stubQuerier{row: stubRow{id: 17}}
	reg := registration.New(1, 2, 300, time.Now())
	require.NoError(t, NewRegistrationRepository(q).Create(ctx, reg))
	assert.Equal(t, int64(17), reg.ID)

	q = &stubQuerier{row: stubRow{err: &pgconn.PgError{Code: "23505"}}}
	err := NewRegistrationRepository(q).Create(ctx, registration.New(1, 2, 300, time.Now()))
	assert.ErrorIs(t, err, registration.ErrRegistrationExists)
}

func TestRegistrationRepository_CreateTruncatesRegisteredAt(t *testing.T) {
	q := &stubQuerier{row: stubRow{id: 1}}
	at := time.Date(2026, 5, 1, 12, 0, 0, 123456789, time.UTC)
	reg := registration.New(1, 2, 300, at)

	require.NoError(t, NewRegistrationRepository(q).Create(context.Background(), reg))
	assert.Equal(t, 123456000, reg.RegisteredAt.Nanosecond())
	require.Len(t, q.args, 1)
	assert.Equal(t, reg.RegisteredAt, q.args[0][3])
}

func courseRow(id int64, name string, start time.Time) []any {
	return []any{id, name, start, start.Add(30 * 24 * time.Hour), int64(1000)}
}

func TestRegistrationRepository_FindOngoingCourses(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	almaty := time.FixedZone("ALMT", 5*3600)
	q := &stubQuerier{rows: &stubRows{rows: [][]any{
		courseRow(3, "Compilers", now.Add(-48*time.Hour).In(almaty)),
		courseRow(5, "Networks", now.Add(-24*time.Hour)),
	}}}

	list, err := NewRegistrationRepository(q).FindOngoingCourses(context.Background(), 7, now)
	require.NoError(t, err)

	sql := normalizeSQL(q.sql[0])
	assert.Contains(t, sql, "JOIN registrations r ON r.course_id = c.id")
	assert.Contains(t, sql, "WHERE r.student_id = $1 AND c.start_time <= $2 AND c.end_time >= $2")
	assert.Contains(t, sql, "ORDER BY c.start_time, c.id")
	assert.Equal(t, []any{int64(7), now}, q.args[0])

	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, time.UTC, list[0].StartTime.Location())
	assert.Equal(t, "Networks", list[1].Name)
	assert.True(t, q.rows.closed)
}

func TestRegistrationRepository_FindUpcomingCourses(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	q := &stubQuerier{}

	list, err := NewRegistrationRepository(q).FindUpcomingCourses(context.Background(), 7, now)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	sql := normalizeSQL(q.sql[0])
	assert.Contains(t, sql, "WHERE r.student_id = $1 AND c.start_time > $2")
	assert.NotContains(t, sql, "start_time >= $2")
	assert.Contains(t, sql, "ORDER BY c.start_time, c.id")

	q = &stubQuerier{queryErr: errors.New("conn reset")}
	_, err = NewRegistrationRepository(q).FindUpcomingCourses(context.Background(), 7, now)
	assert.ErrorContains(t, err, "failed to query upcoming courses: conn reset")
}

func TestRegistrationRepository_DeleteMissing(t *testing.T) {
	q := &stubQuerier{tag: pgconn.NewCommandTag("DELETE 0")}
	err := NewRegistrationRepository(q).DeleteByStudentAndCourse(context.Background(), 1, 2)
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)

	q = &stubQuerier{tag: pgconn.NewCommandTag("DELETE 1")}
	assert.NoError(t, NewRegistrationRepository(q).DeleteByStudentAndCourse(context.Background(), 1, 2))
}

func TestRegistrationRepository_GetMissing(t *testing.T) {
	q := &stubQuerier{row: stubRow{err: pgx.ErrNoRows}}
	_, err := NewRegistrationRepository(q).GetByStudentAndCourse(context.Background(), 1, 2)
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)
}

func TestCourseRepository_Errors(t *testing.T) {
	ctx := context.Background()

	q := &stubQuerier{row: stubRow{err: pgx.ErrNoRows}}
	_, err := NewCourseRepository(q).GetByID(ctx, 9)
	assert.ErrorIs(t, err, course.ErrCourseNotFound)

	q = &stubQuerier{tag: pgconn.NewCommandTag("DELETE 0")}
	assert.ErrorIs(t, NewCourseRepository(q).Delete(ctx, 9), course.ErrCourseNotFound)

	q = &stubQuerier{row: stubRow{err: &pgconn.PgError{Code: "23514"}}}
	err = NewCourseRepository(q).Create(ctx, &course.Course{Name: "x"})
	assert.True(t, shared.IsValidation(err))

	q = &stubQuerier{execErr: errors.New("conn closed")}
	err = NewCourseRepository(q).Delete(ctx, 9)
	assert.ErrorContains(t, err, "conn closed")
}

func TestStudentRepository_Errors(t *testing.T) {
	ctx := context.Background()

	q := &stubQuerier{row: stubRow{err: &pgconn.PgError{Code: "23505"}}}
	err := NewStudentRepository(q).Create(ctx, &student.Student{Email: "ada@example.com"})
	assert.True(t, shared.IsAlreadyExists(err))
	assert.Equal(t, "Student with email ada@example.com already exists", shared.Message(err))

	q = &stubQuerier{row: stubRow{err: pgx.ErrNoRows}}
	_, err = NewStudentRepository(q).GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestMigrations(t *testing.T) {
	migrations := GetMigrations()
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, i+1, m.Version, "versions are contiguous")
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpSQL, "migration %d has no up SQL", m.Version)
		assert.NotEmpty(t, m.DownSQL, "migration %d has no down SQL", m.Version)
	}

	var sawUnique bool
	for _, m := range migrations {
		if m.Name == "create_registrations" {
			sawUnique = assert.Contains(t, m.UpSQL, "UNIQUE") && assert.Contains(t, m.UpSQL, "ON DELETE CASCADE")
		}
	}
	assert.True(t, sawUnique)
}

func TestMergeStatus(t *testing.T) {
	appliedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []Migration{{Version: 2, Name: "b"}, {Version: 1, Name: "a"}}

	out := mergeStatus(in, map[int]time.Time{1: appliedAt})

	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Version)
	assert.True(t, out[0].IsApplied)
	assert.Equal(t, appliedAt, out[0].AppliedAt)
	assert.False(t, out[1].IsApplied)
	assert.False(t, in[1].IsApplied, "input is not modified")
}

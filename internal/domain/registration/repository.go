package registration

import (
	"context"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/course"
	"github.com/alem-hub/course-registration/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища записей на курсы.
type Repository interface {
	// Create сохраняет запись и заполняет r.ID.
	// Возвращает ErrRegistrationExists при нарушении уникальности (студент, курс).
	Create(ctx context.Context, r *Registration) error

	// GetByStudentAndCourse возвращает запись для пары (студент, курс).
	// Возвращает ErrRegistrationNotFound, если записи нет.
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*Registration, error)

	// DeleteByStudentAndCourse удаляет запись для пары (студент, курс).
	// Возвращает ErrRegistrationNotFound, если записи нет.
	DeleteByStudentAndCourse(ctx context.Context, studentID, courseID int64) error

	// FindOngoingCourses возвращает курсы студента, для которых
	// StartTime <= now <= EndTime.
	FindOngoingCourses(ctx context.Context, studentID int64, now time.Time) ([]*course.Course, error)

	// FindUpcomingCourses возвращает курсы студента, для которых StartTime > now,
	// упорядоченные по времени начала, затем по ID.
	FindUpcomingCourses(ctx context.Context, studentID int64, now time.Time) ([]*course.Course, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWork представляет единицу работы с транзакционной семантикой.
// Все три хранилища видят одно и то же состояние транзакции.
type UnitOfWork interface {
	// Courses возвращает репозиторий курсов в рамках транзакции.
	Courses() course.Repository

	// Students возвращает репозиторий студентов в рамках транзакции.
	Students() student.Repository

	// Registrations возвращает репозиторий записей в рамках транзакции.
	Registrations() Repository

	// Commit фиксирует транзакцию.
	Commit(ctx context.Context) error

	// Rollback откатывает транзакцию. Вызов после Commit ничего не делает.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory создаёт единицы работы.
type UnitOfWorkFactory interface {
	// Begin начинает новую транзакцию.
	Begin(ctx context.Context) (UnitOfWork, error)
}

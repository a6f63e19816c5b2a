package student

import (
	"context"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища студентов.
type Repository interface {
	// Create сохраняет нового студента и заполняет s.ID.
	// Возвращает ErrStudentAlreadyExists, если email уже занят.
	Create(ctx context.Context, s *Student) error

	// GetByID возвращает студента по ID.
	// Возвращает ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id int64) (*Student, error)

	// GetByEmail возвращает студента по email.
	// Возвращает ErrStudentNotFound, если студент не найден.
	GetByEmail(ctx context.Context, email string) (*Student, error)

	// List возвращает студентов, упорядоченных по ID.
	List(ctx context.Context, opts shared.ListOptions) ([]*Student, error)
}

// Package registration содержит доменную модель записи студента на курс.
//
// Registration - связь многие-ко-многим между студентом и курсом со своими
// атрибутами (цена и время записи). Для пары (студент, курс) существует не
// более одной записи; инвариант обеспечивается ограничением уникальности
// в хранилище.
package registration

import (
	"time"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrRegistrationNotFound - запись на курс не найдена.
	ErrRegistrationNotFound = shared.NewDomainError("registration", "Find", shared.ErrNotFound, "registration not found")

	// ErrRegistrationExists - нарушение уникальности (студент, курс) в хранилище.
	ErrRegistrationExists = shared.NewDomainError("registration", "Create", shared.ErrAlreadyExists, "registration already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Registration - запись студента на курс. Создаётся при записи, удаляется при
// отписке и никогда не изменяется на месте.
type Registration struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	CourseID     int64     `json:"course_id"`
	Price        int64     `json:"price"`
	RegisteredAt time.Time `json:"registered_at"`
}

// New создаёт запись с уже рассчитанной ценой.
func New(studentID, courseID, price int64, registeredAt time.Time) *Registration {
	return &Registration{
		StudentID:    studentID,
		CourseID:     courseID,
		Price:        price,
		RegisteredAt: registeredAt,
	}
}

// Key - ключ уникальности записи.
type Key struct {
	StudentID int64
	CourseID  int64
}

// Key возвращает пару (студент, курс).
func (r *Registration) Key() Key {
	return Key{StudentID: r.StudentID, CourseID: r.CourseID}
}

package student

import (
	"strings"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - студент не найден.
	ErrStudentNotFound = shared.NewDomainError("student", "Find", shared.ErrNotFound, "student not found")

	// ErrStudentAlreadyExists - студент с таким email уже существует.
	ErrStudentAlreadyExists = shared.NewDomainError("student", "Create", shared.ErrAlreadyExists, "student already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student - студент, который записывается на курсы.
// С точки зрения сценариев записи сущность только читается.
type Student struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudentParams - параметры для создания студента.
type NewStudentParams struct {
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// NewStudent создаёт и валидирует нового студента.
// ID назначается хранилищем при сохранении.
func NewStudent(p NewStudentParams) (*Student, error) {
	s := &Student{
		Email:     strings.TrimSpace(p.Email),
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		CreatedAt: p.CreatedAt,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate проверяет инварианты студента.
func (s *Student) Validate() error {
	if s.Email == "" {
		return shared.Validationf("student", "Validate", "email is required")
	}
	if !strings.Contains(s.Email, "@") {
		return shared.Validationf("student", "Validate", "email %q is not a valid address", s.Email)
	}
	return nil
}

// FullName возвращает имя и фамилию через пробел.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Package course содержит доменную модель курса.
// Курс создаётся и изменяется администратором; сценарии записи только читают его.
package course

import (
	"strings"
	"time"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// ErrCourseNotFound - курс не найден.
var ErrCourseNotFound = shared.NewDomainError("course", "Find", shared.ErrNotFound, "course not found")

// ══════════════════════════════════════════════════════════════════════════════
// COURSE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Course - курс с временным окном и ценой в целых единицах валюты.
type Course struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     int64     `json:"price"`
}

// NewCourseParams - параметры для создания курса.
type NewCourseParams struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Price     int64
}

// NewCourse создаёт и валидирует курс. ID назначается хранилищем.
func NewCourse(p NewCourseParams) (*Course, error) {
	c := &Course{
		Name:      strings.TrimSpace(p.Name),
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Price:     p.Price,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate проверяет инварианты курса.
func (c *Course) Validate() error {
	if c.Name == "" {
		return shared.Validationf("course", "Validate", "name is required")
	}
	if c.Price < 0 {
		return shared.Validationf("course", "Validate", "price cannot be negative")
	}
	if c.StartTime.IsZero() || c.EndTime.IsZero() {
		return shared.Validationf("course", "Validate", "start_time and end_time are required")
	}
	if c.EndTime.Before(c.StartTime) {
		return shared.Validationf("course", "Validate", "end_time must not be before start_time")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Temporal predicates
// ─────────────────────────────────────────────────────────────────────────────

// HasStarted возвращает true, если now >= StartTime.
func (c *Course) HasStarted(now time.Time) bool {
	return !now.Before(c.StartTime)
}

// HasEnded возвращает true, если now >= EndTime.
func (c *Course) HasEnded(now time.Time) bool {
	return !now.Before(c.EndTime)
}

// IsOngoing возвращает true, если StartTime <= now <= EndTime.
func (c *Course) IsOngoing(now time.Time) bool {
	return !now.Before(c.StartTime) && !now.After(c.EndTime)
}

// IsUpcoming возвращает true, если курс ещё не начался (StartTime > now).
func (c *Course) IsUpcoming(now time.Time) bool {
	return c.StartTime.After(now)
}

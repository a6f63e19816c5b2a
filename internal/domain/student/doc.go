// Package student содержит доменную модель студента курсов.
//
// Пакет определяет:
//
//   - Сущность Student (ID, Email, FirstName, LastName)
//   - Интерфейс репозитория Repository
//   - Доменные ошибки ErrStudentNotFound, ErrStudentAlreadyExists
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейсы реализуются в infrastructure/persistence
//
// Email - ключ поиска студента в сценариях записи на курс. Email хранится и
// сравнивается как есть, без нормализации регистра.
//
//	s, err := student.NewStudent(student.NewStudentParams{
//	    Email:     "a@x.com",
//	    FirstName: "Aigerim",
//	    LastName:  "Sultanova",
//	})
package student

package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("student", "Find", ErrNotFound, "Student with email a@b.c not found")

	assert.True(t, IsNotFound(err))
	assert.False(t, IsInvalidState(err))
	assert.Equal(t, "Student with email a@b.c not found", Message(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "Student with email a@b.c not found", Message(wrapped))
}

func TestWrapError_KeepsCause(t *testing.T) {
	cause := errors.New("unique violation")
	err := WrapError("registration", "Create", ErrAlreadyExists, "already registered", cause)

	assert.True(t, IsAlreadyExists(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unique violation")
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsValidation(Validationf("course", "Validate", "name is required")))
	assert.True(t, IsValidation(ErrInvalidID))
	assert.True(t, IsInvalidState(InvalidStatef("course", "Register", "started")))
	assert.True(t, IsAlreadyExists(NewDomainError("student", "Create", ErrAlreadyExists, "exists")))
	assert.True(t, IsRetryable(fmt.Errorf("db: %w", ErrTimeout)))
	assert.False(t, IsRetryable(ErrNotFound))
}

func TestListOptions_Normalize(t *testing.T) {
	assert.Equal(t, ListOptions{Limit: DefaultPageSize}, ListOptions{}.Normalize())
	assert.Equal(t, ListOptions{Limit: MaxPageSize, Offset: 0}, ListOptions{Limit: MaxPageSize + 1, Offset: -5}.Normalize())
	assert.Equal(t, ListOptions{Limit: 10, Offset: 20}, ListOptions{Limit: 10, Offset: 20}.Normalize())
}

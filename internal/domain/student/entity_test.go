package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/course-registration/internal/domain/shared"
)

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(NewStudentParams{Email: " ada@example.com ", FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, "Ada Lovelace", s.FullName())

	_, err = NewStudent(NewStudentParams{})
	assert.True(t, shared.IsValidation(err))

	_, err = NewStudent(NewStudentParams{Email: "not-an-address"})
	assert.True(t, shared.IsValidation(err))
}

func TestFullName_OnlyFirst(t *testing.T) {
	s := &Student{FirstName: "Ada"}
	assert.Equal(t, "Ada", s.FullName())
}

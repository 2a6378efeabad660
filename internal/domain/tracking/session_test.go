package tracking

import (
	"errors"
	"strings"
	"testing"

	"github.com/rastreo/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession()
	assert.NotEmpty(t, s.ID)
	assert.Empty(t, s.Query)

	s.SetQuery("  1234 ")
	assert.Equal(t, "1234", s.Query)
	assert.False(t, s.UpdatedAt.Before(s.CreatedAt))

	s.Clear()
	assert.Empty(t, s.Query)
}

func TestValidateTicket(t *testing.T) {
	assert.NoError(t, ValidateTicket(""))
	assert.NoError(t, ValidateTicket(" 1234 "))

	err := ValidateTicket(strings.Repeat("9", MaxTicketLength+1))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	err = ValidateTicket("12\x0034")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestErrors(t *testing.T) {
	cause := errors.New("sheet not found")
	err := NewSourceUnavailableError("Cliente", cause)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrSchemaMismatch))

	err = NewSchemaMismatchError("Ticket", []Field{FieldID, FieldStatus})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "id, status")

	assert.True(t, errors.Is(ErrSessionNotFound, shared.ErrNotFound))
}

package tracking

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rastreo/backend/internal/domain/shared"
)

// MaxTicketLength bounds the length of a ticket query
const MaxTicketLength = 64

// NormalizeTicket trims surrounding whitespace from a ticket query
func NormalizeTicket(query string) string {
	return strings.TrimSpace(query)
}

// ValidateTicket checks a ticket query before it is stored.
// An empty ticket is valid and means "no lookup".
func ValidateTicket(query string) error {
	ticket := NormalizeTicket(query)
	if len([]rune(ticket)) > MaxTicketLength {
		return shared.ErrInvalidInput.Wrap(fmt.Sprintf("ticket must be at most %d characters", MaxTicketLength), nil)
	}
	for _, r := range ticket {
		if unicode.IsControl(r) {
			return shared.ErrInvalidInput.Wrap("ticket contains control characters", nil)
		}
	}
	return nil
}

package tracking

import (
	"github.com/rastreo/backend/internal/domain/tracking"
)

// Resolve finds the first order whose identifier equals the trimmed ticket.
// The comparison is exact and case-sensitive. An empty ticket never matches.
func Resolve(orders []tracking.EnrichedOrder, ticket string) (tracking.EnrichedOrder, bool) {
	ticket = tracking.NormalizeTicket(ticket)
	if ticket == "" {
		return tracking.EnrichedOrder{}, false
	}
	for _, o := range orders {
		if o.ID == ticket {
			return o, true
		}
	}
	return tracking.EnrichedOrder{}, false
}

package tracking

import (
	"testing"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	orders := []tracking.EnrichedOrder{
		tracking.NewEnrichedOrder(tracking.OrderRecord{ID: "1234", Status: "Cargado", CustomerRef: "C-1"}, ""),
		tracking.NewEnrichedOrder(tracking.OrderRecord{ID: "1234", Status: "Entregado", CustomerRef: "C-2"}, ""),
		tracking.NewEnrichedOrder(tracking.OrderRecord{ID: "AB-9", Status: "Enrutado"}, ""),
	}

	t.Run("first match wins", func(t *testing.T) {
		got, ok := Resolve(orders, "1234")
		assert.True(t, ok)
		assert.Equal(t, "Cargado", got.Status)
	})

	t.Run("ticket is trimmed", func(t *testing.T) {
		_, ok := Resolve(orders, "  1234\t")
		assert.True(t, ok)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, ok := Resolve(orders, "ab-9")
		assert.False(t, ok)
	})

	t.Run("empty ticket", func(t *testing.T) {
		_, ok := Resolve(orders, "   ")
		assert.False(t, ok)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		_, ok := Resolve(orders, "9999")
		assert.False(t, ok)
	})

	t.Run("display name never empty", func(t *testing.T) {
		got, ok := Resolve(orders, "AB-9")
		assert.True(t, ok)
		assert.Equal(t, tracking.UnknownCustomerName, got.DisplayName)
	})
}

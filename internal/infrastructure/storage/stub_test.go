package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStorage()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Download(ctx, "exports/Ticket.csv")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := store.Download(ctx, "")
		assert.Error(t, err)
	})

	t.Run("returns a copy", func(t *testing.T) {
		store.Put("exports/Ticket.csv", []byte("Id\n1"))

		data, err := store.Download(ctx, "exports/Ticket.csv")
		require.NoError(t, err)
		data[0] = 'X'

		again, err := store.Download(ctx, "exports/Ticket.csv")
		require.NoError(t, err)
		assert.Equal(t, "Id\n1", string(again))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Download(cctx, "exports/Ticket.csv")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

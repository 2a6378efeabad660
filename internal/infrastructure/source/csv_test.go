package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestNewCSVDirSource(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewCSVDirSource(config.CSVConfig{Dir: filepath.Join(t.TempDir(), "absent")})
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "Ticket.csv", "Id\n1\n")
		_, err := NewCSVDirSource(config.CSVConfig{Dir: filepath.Join(dir, "Ticket.csv")})
		assert.Error(t, err)
	})

	t.Run("bad delimiter", func(t *testing.T) {
		_, err := NewCSVDirSource(config.CSVConfig{Dir: t.TempDir(), Delimiter: ";;"})
		assert.Error(t, err)
	})
}

func TestCSVDirSource_FetchTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Ticket.csv", "\xEF\xBB\xBFId;Cliente;Estado\n1234;7;Cargado\n")
	src, err := NewCSVDirSource(config.CSVConfig{Dir: dir, Delimiter: ";"})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("reads the table file", func(t *testing.T) {
		table, err := src.FetchTable(ctx, "Ticket")
		require.NoError(t, err)

		assert.Equal(t, []string{"Id", "Cliente", "Estado"}, table.Columns)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Cargado", table.Rows[0]["Estado"])
	})

	t.Run("rereads on every call", func(t *testing.T) {
		writeFile(t, dir, "Cliente.csv", "IdCliente;Nombre\n7;Ana\n")
		first, err := src.FetchTable(ctx, "Cliente")
		require.NoError(t, err)
		assert.Equal(t, "Ana", first.Rows[0]["Nombre"])

		writeFile(t, dir, "Cliente.csv", "IdCliente;Nombre\n7;Ana María\n")
		second, err := src.FetchTable(ctx, "Cliente")
		require.NoError(t, err)
		assert.Equal(t, "Ana María", second.Rows[0]["Nombre"])
	})

	t.Run("stray quotes depend on strict_quotes", func(t *testing.T) {
		quoted := t.TempDir()
		writeFile(t, quoted, "Ticket.csv", "Id,Estado\n1234,Carg\"ado\n")

		lenient, err := NewCSVDirSource(config.CSVConfig{Dir: quoted})
		require.NoError(t, err)
		table, err := lenient.FetchTable(ctx, "Ticket")
		require.NoError(t, err)
		assert.Equal(t, `Carg"ado`, table.Rows[0]["Estado"])

		strict, err := NewCSVDirSource(config.CSVConfig{Dir: quoted, StrictQuotes: true})
		require.NoError(t, err)
		_, err = strict.FetchTable(ctx, "Ticket")
		assert.ErrorIs(t, err, tracking.ErrSourceUnavailable)
	})

	t.Run("missing table is unavailable", func(t *testing.T) {
		_, err := src.FetchTable(ctx, "Pedidos")
		assert.ErrorIs(t, err, tracking.ErrSourceUnavailable)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, err := src.FetchTable(ctx, "../Ticket")
		assert.ErrorIs(t, err, tracking.ErrSourceUnavailable)
		assert.NotErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("empty file is unavailable", func(t *testing.T) {
		writeFile(t, dir, "Vacio.csv", "")
		_, err := src.FetchTable(ctx, "Vacio")
		assert.ErrorIs(t, err, tracking.ErrSourceUnavailable)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := src.FetchTable(cctx, "Ticket")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

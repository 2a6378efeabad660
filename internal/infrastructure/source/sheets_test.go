package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeSheets serves the values.get endpoint for a fixed set of worksheets
func fakeSheets(t *testing.T, spreadsheetID string, worksheets map[string][][]any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	prefix := "/v4/spreadsheets/" + spreadsheetID + "/values/"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")

		rng := strings.TrimPrefix(r.URL.Path, prefix)
		name := strings.ReplaceAll(strings.Trim(rng, "'"), "''", "'")
		values, ok := worksheets[name]
		if !strings.HasPrefix(r.URL.Path, prefix) || !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{
					"code":    400,
					"message": "Unable to parse range: " + rng,
					"status":  "INVALID_ARGUMENT",
				},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":          rng + "!A1:Z100",
			"majorDimension": "ROWS",
			"values":         values,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestSheetsSource(t *testing.T, srv *httptest.Server) *SheetsSource {
	t.Helper()
	src, err := NewSheetsSource(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-1", Endpoint: srv.URL + "/"},
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return src
}

func TestNewSheetsSource_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewSheetsSource(context.Background(), config.SheetsConfig{})
	assert.Error(t, err)
}

func TestSheetsSource_FetchTable(t *testing.T) {
	srv, calls := fakeSheets(t, "sheet-1", map[string][][]any{
		"Ticket": {
			{"Id", "Cliente", "Estado", "Cargado", "Fecha entrega"},
			{"1234", "7", "Cargado", "2024-03-09 10:00:00", "2024-03-10"},
			{},
			{"5678", "8", "Entregado"},
		},
		"Cliente": {
			{"IdCliente", "Nombre", "Nombre"},
			{"7", "Ana", "Ana B."},
		},
		"Hoja's": {
			{"Id"},
		},
	})
	src := newTestSheetsSource(t, srv)
	ctx := context.Background()

	t.Run("first row is the header", func(t *testing.T) {
		table, err := src.FetchTable(ctx, "Ticket")
		require.NoError(t, err)

		assert.Equal(t, "Ticket", table.Name)
		assert.Equal(t, []string{"Id", "Cliente", "Estado", "Cargado", "Fecha entrega"}, table.Columns)
		require.Len(t, table.Rows, 2, "blank rows are skipped")
		assert.Equal(t, "1234", table.Rows[0]["Id"])
		assert.Equal(t, "2024-03-10", table.Rows[0]["Fecha entrega"])
	})

	t.Run("short rows are padded with nil", func(t *testing.T) {
		table, err := src.FetchTable(ctx, "Ticket")
		require.NoError(t, err)

		last := table.Rows[1]
		assert.Contains(t, last, "Fecha entrega")
		assert.Nil(t, last["Fecha entrega"])
	})

	t.Run("duplicate headers stay addressable", func(t *testing.T) {
		table, err := src.FetchTable(ctx, "Cliente")
		require.NoError(t, err)
		assert.Equal(t, []string{"IdCliente", "Nombre", "Nombre.1"}, table.Columns)
		assert.Equal(t, "Ana", table.Rows[0]["Nombre"])
	})

	t.Run("quotes in worksheet names", func(t *testing.T) {
		table, err := src.FetchTable(ctx, "Hoja's")
		require.NoError(t, err)
		assert.Equal(t, []string{"Id"}, table.Columns)
		assert.Empty(t, table.Rows)
	})

	t.Run("missing worksheet is unavailable", func(t *testing.T) {
		_, err := src.FetchTable(ctx, "Clientes")
		assert.ErrorIs(t, err, tracking.ErrSourceUnavailable)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("every fetch hits the API", func(t *testing.T) {
		before := calls.Load()
		_, _ = src.FetchTable(ctx, "Ticket")
		_, _ = src.FetchTable(ctx, "Ticket")
		assert.Equal(t, before+2, calls.Load())
	})
}

func TestSheetsSource_Unreachable(t *testing.T) {
	srv, _ := fakeSheets(t, "sheet-1", nil)
	src := newTestSheetsSource(t, srv)
	srv.Close()

	_, err := src.FetchTable(context.Background(), "Ticket")
	assert.ErrorIs(t, err, tracking.ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrTableNotFound)
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "'Ticket'", sheetRange("Ticket"))
	assert.Equal(t, "'Hoja''s'", sheetRange("Hoja's"))
}

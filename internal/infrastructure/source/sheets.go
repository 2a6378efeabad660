package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads worksheets of one Google spreadsheet.
// The first row of a worksheet is its header.
type SheetsSource struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

// NewSheetsSource creates a Google Sheets source. Extra client options are
// appended after the ones derived from configuration.
func NewSheetsSource(ctx context.Context, cfg config.SheetsConfig, extra ...option.ClientOption) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts,
			option.WithCredentialsFile(cfg.CredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		)
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &SheetsSource{
		values:        sheets.NewSpreadsheetsValuesService(svc),
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

// FetchTable implements Source
func (s *SheetsSource) FetchTable(ctx context.Context, name string) (*tracking.Table, error) {
	resp, err := s.values.Get(s.spreadsheetID, sheetRange(name)).
		MajorDimension("ROWS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, unavailable(name, fmt.Errorf("%w: worksheet %s: %w", ErrTableNotFound, name, err))
		}
		return nil, unavailable(name, err)
	}

	return valuesToTable(name, resp.Values), nil
}

// sheetRange addresses a whole worksheet, quoting the name in A1 notation
func sheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func isMissingSheet(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == http.StatusNotFound {
		return true
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}

// valuesToTable converts a values grid to a table. The API drops trailing
// empty cells, so short rows are padded with nil and blank rows are skipped.
func valuesToTable(name string, values [][]any) *tracking.Table {
	table := &tracking.Table{Name: name}
	if len(values) == 0 {
		return table
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = tracking.CellText(cell)
	}
	table.Columns = uniqueHeaders(header)

	for _, record := range values[1:] {
		row := make(tracking.Row, len(table.Columns))
		empty := true
		for i, col := range table.Columns {
			var v any
			if i < len(record) {
				v = record[i]
			}
			if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
				v = nil
			}
			if v != nil {
				empty = false
			}
			row[col] = v
		}
		if !empty {
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

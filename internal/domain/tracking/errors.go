package tracking

import (
	"fmt"
	"strings"

	"github.com/rastreo/backend/internal/domain/shared"
)

// Tracking domain errors
var (
	// ErrSourceUnavailable is returned when a table cannot be read from the data source
	ErrSourceUnavailable = shared.NewDomainError("SOURCE_UNAVAILABLE", "Data source unavailable")

	// ErrSchemaMismatch is returned when a required logical field has no matching column
	ErrSchemaMismatch = shared.NewDomainError("SCHEMA_MISMATCH", "Table does not match the configured schema")

	// ErrSessionNotFound is returned when a lookup session does not exist or expired
	ErrSessionNotFound = shared.ErrNotFound.Wrap("Session not found", nil)
)

// NewSourceUnavailableError wraps a data source failure for the given table
func NewSourceUnavailableError(table string, cause error) error {
	return ErrSourceUnavailable.Wrap(fmt.Sprintf("table %q is unavailable", table), cause)
}

// NewSchemaMismatchError reports the required fields missing from a table
func NewSchemaMismatchError(table string, missing []Field) error {
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
	}
	return ErrSchemaMismatch.Wrap(
		fmt.Sprintf("table %q has no column for: %s", table, strings.Join(names, ", ")),
		nil,
	)
}

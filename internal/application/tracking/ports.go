// Package tracking implements the order lookup pipeline: fetch both tables,
// normalize their schema, join customers onto orders, resolve one ticket and
// build its display plan.
package tracking

import (
	"context"
	"time"

	"github.com/rastreo/backend/internal/domain/tracking"
)

// TableSource reads named tables from the backing data store.
// Implementations re-read the source on every call and return an error
// matching tracking.ErrSourceUnavailable when the table cannot be read.
type TableSource interface {
	FetchTable(ctx context.Context, name string) (*tracking.Table, error)
}

// Lookup outcomes reported to LookupMetrics
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// LookupMetrics records pipeline measurements
type LookupMetrics interface {
	RecordLookup(ctx context.Context, outcome string)
	RecordFetch(ctx context.Context, table string, duration time.Duration, err error)
	RecordJoinDegraded(ctx context.Context, reason string)
}

type noopMetrics struct{}

func (noopMetrics) RecordLookup(context.Context, string) {}
func (noopMetrics) RecordFetch(context.Context, string, time.Duration, error) {}
func (noopMetrics) RecordJoinDegraded(context.Context, string) {}

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// TrackingMetrics records lookup pipeline measurements.
type TrackingMetrics struct {
	lookups       *Counter
	joinDegraded  *Counter
	fetchDuration *Histogram
}

// NewTrackingMetrics creates the pipeline instruments on the given meter.
func NewTrackingMetrics(meter metric.Meter) (*TrackingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	lookups, err := NewCounter(meter, "rastreo_lookup_total", "Total number of order lookups by outcome", "{lookups}")
	if err != nil {
		return nil, err
	}
	joinDegraded, err := NewCounter(meter, "rastreo_join_degraded_total", "Lookups whose customer join degraded", "{lookups}")
	if err != nil {
		return nil, err
	}
	fetchDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "rastreo_table_fetch_duration_seconds",
		Description: "Duration of table reads from the data source",
		Unit:        "s",
		Boundaries:  FetchDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &TrackingMetrics{
		lookups:       lookups,
		joinDegraded:  joinDegraded,
		fetchDuration: fetchDuration,
	}, nil
}

// RecordLookup counts one pipeline run.
func (m *TrackingMetrics) RecordLookup(ctx context.Context, outcome string) {
	m.lookups.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordFetch records the duration of one table read.
func (m *TrackingMetrics) RecordFetch(ctx context.Context, table string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetchDuration.RecordDuration(ctx, duration, AttrTable.String(table), AttrResult.String(result))
}

// RecordJoinDegraded counts one degraded customer join.
func (m *TrackingMetrics) RecordJoinDegraded(ctx context.Context, reason string) {
	m.joinDegraded.Inc(ctx, AttrAdvisory.String(reason))
}

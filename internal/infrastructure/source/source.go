// Package source provides the table sources the lookup pipeline reads from:
// Google Sheets worksheets, CSV exports on disk or in S3, and SQL tables.
package source

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rastreo/backend/internal/domain/tracking"
)

// ErrTableNotFound is the cause attached when the named table does not exist
var ErrTableNotFound = errors.New("table not found")

// unavailable wraps any read failure as a SourceUnavailable domain error
func unavailable(name string, cause error) error {
	if errors.Is(cause, tracking.ErrSourceUnavailable) {
		return cause
	}
	return tracking.NewSourceUnavailableError(name, cause)
}

// uniqueHeaders trims header cells and renames repeats
func uniqueHeaders(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return tracking.UniqueColumns(out)
}

// TimeoutSource bounds every fetch of the wrapped source with a deadline
type TimeoutSource struct {
	next    Source
	timeout time.Duration
}

// Source is the contract every adapter in this package satisfies
type Source interface {
	FetchTable(ctx context.Context, name string) (*tracking.Table, error)
}

// Pinger is implemented by sources holding a connection that can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping probes src when it holds a connection. Sources without one always succeed.
func Ping(ctx context.Context, src Source) error {
	if p, ok := src.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// WithTimeout wraps next so that each FetchTable call is cancelled after d.
// A non-positive d returns next unchanged.
func WithTimeout(next Source, d time.Duration) Source {
	if d <= 0 {
		return next
	}
	return &TimeoutSource{next: next, timeout: d}
}

// FetchTable implements Source
func (s *TimeoutSource) FetchTable(ctx context.Context, name string) (*tracking.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	table, err := s.next.FetchTable(ctx, name)
	if err != nil {
		return nil, unavailable(name, err)
	}
	return table, nil
}

// Ping forwards to the wrapped source
func (s *TimeoutSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return Ping(ctx, s.next)
}

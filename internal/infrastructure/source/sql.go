package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/persistence"
)

// TableReader reads a whole table from a database
type TableReader interface {
	ReadTable(ctx context.Context, name string) (*tracking.Table, error)
}

// SQLSource reads tables from a SQL database
type SQLSource struct {
	reader TableReader
}

// NewSQLSource creates a SQL table source
func NewSQLSource(reader TableReader) *SQLSource {
	return &SQLSource{reader: reader}
}

// FetchTable implements Source
func (s *SQLSource) FetchTable(ctx context.Context, name string) (*tracking.Table, error) {
	table, err := s.reader.ReadTable(ctx, name)
	if err != nil {
		if errors.Is(err, persistence.ErrTableNotFound) {
			return nil, unavailable(name, fmt.Errorf("%w: %w", ErrTableNotFound, err))
		}
		return nil, unavailable(name, err)
	}
	return table, nil
}

// Ping checks the database connection when the reader exposes one
func (s *SQLSource) Ping(ctx context.Context) error {
	if p, ok := s.reader.(interface{ PingContext(context.Context) error }); ok {
		return p.PingContext(ctx)
	}
	return nil
}

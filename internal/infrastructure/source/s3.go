package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	csvimport "github.com/rastreo/backend/internal/infrastructure/import"
	"github.com/rastreo/backend/internal/infrastructure/storage"
)

// S3Source reads <prefix><table>.csv objects from a bucket
type S3Source struct {
	objects storage.ObjectReader
	prefix  string
	opts    []csvimport.Option
}

// NewS3Source creates an object storage source
func NewS3Source(objects storage.ObjectReader, cfg config.S3Config) (*S3Source, error) {
	if objects == nil {
		return nil, errors.New("object reader is required")
	}
	delimiter, err := csvimport.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	return &S3Source{
		objects: objects,
		prefix:  cfg.Prefix,
		opts: []csvimport.Option{
			csvimport.WithDelimiter(delimiter),
			csvimport.WithLazyQuotes(!cfg.StrictQuotes),
		},
	}, nil
}

// Key returns the object key holding the named table
func (s *S3Source) Key(name string) string {
	return s.prefix + name + ".csv"
}

// FetchTable implements Source
func (s *S3Source) FetchTable(ctx context.Context, name string) (*tracking.Table, error) {
	if err := validateFileTableName(name); err != nil {
		return nil, unavailable(name, err)
	}

	data, err := s.objects.Download(ctx, s.Key(name))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, unavailable(name, fmt.Errorf("%w: %w", ErrTableNotFound, err))
		}
		return nil, unavailable(name, err)
	}

	table, err := csvimport.ReadTableBytes(name, data, s.opts...)
	if err != nil {
		return nil, unavailable(name, err)
	}
	return table, nil
}

// Ping probes the bucket when the object reader supports it
func (s *S3Source) Ping(ctx context.Context) error {
	if p, ok := s.objects.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

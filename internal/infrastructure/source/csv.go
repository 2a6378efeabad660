package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	csvimport "github.com/rastreo/backend/internal/infrastructure/import"
)

// DefaultMaxFileSize caps a single exported table file
const DefaultMaxFileSize = 32 << 20

// CSVDirSource reads <dir>/<table>.csv files
type CSVDirSource struct {
	dir  string
	opts []csvimport.Option
}

// NewCSVDirSource creates a CSV directory source from configuration
func NewCSVDirSource(cfg config.CSVConfig) (*CSVDirSource, error) {
	delimiter, err := csvimport.ParseDelimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("csv source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("csv source path %s is not a directory", cfg.Dir)
	}
	return &CSVDirSource{
		dir: cfg.Dir,
		opts: []csvimport.Option{
			csvimport.WithDelimiter(delimiter),
			csvimport.WithLazyQuotes(!cfg.StrictQuotes),
			csvimport.WithMaxBytes(DefaultMaxFileSize),
		},
	}, nil
}

// FetchTable implements Source
func (s *CSVDirSource) FetchTable(ctx context.Context, name string) (*tracking.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(name, err)
	}
	if err := validateFileTableName(name); err != nil {
		return nil, unavailable(name, err)
	}

	f, err := os.Open(filepath.Join(s.dir, name+".csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, unavailable(name, fmt.Errorf("%w: %s.csv", ErrTableNotFound, name))
		}
		return nil, unavailable(name, err)
	}
	defer f.Close()

	table, err := csvimport.ReadTable(name, f, s.opts...)
	if err != nil {
		return nil, unavailable(name, err)
	}
	return table, nil
}

// validateFileTableName rejects names that would escape the source directory
func validateFileTableName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

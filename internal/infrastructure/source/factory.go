package source

import (
	"context"
	"fmt"

	"github.com/rastreo/backend/internal/infrastructure/config"
	"github.com/rastreo/backend/internal/infrastructure/persistence"
	"github.com/rastreo/backend/internal/infrastructure/storage"
	"github.com/rastreo/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Factory builds the table source selected by configuration
type Factory struct {
	source    config.SourceConfig
	telemetry config.TelemetryConfig
	logger    *zap.Logger
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the sources it builds
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithTelemetry enables database tracing according to cfg
func WithTelemetry(cfg config.TelemetryConfig) FactoryOption {
	return func(f *Factory) {
		f.telemetry = cfg
	}
}

// NewFactory creates a new source factory
func NewFactory(cfg config.SourceConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		source: cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the source. The returned close function releases any
// connection the source holds and is never nil.
func (f *Factory) Create(ctx context.Context) (Source, func() error, error) {
	noClose := func() error { return nil }

	var (
		src     Source
		closeFn = noClose
	)

	switch f.source.Kind {
	case config.SourceSheets:
		s, err := NewSheetsSource(ctx, f.source.Sheets)
		if err != nil {
			return nil, nil, err
		}
		src = s
	case config.SourceCSV:
		s, err := NewCSVDirSource(f.source.CSV)
		if err != nil {
			return nil, nil, err
		}
		src = s
	case config.SourceS3:
		objects, err := storage.NewS3ObjectStorage(&f.source.S3,
			storage.WithLogger(f.logger),
			storage.WithMaxObjectSize(DefaultMaxFileSize),
		)
		if err != nil {
			return nil, nil, err
		}
		s, err := NewS3Source(objects, f.source.S3)
		if err != nil {
			return nil, nil, err
		}
		src = s
	case config.SourceSQL:
		db, err := persistence.NewDatabase(&f.source.Database,
			persistence.WithZapLogger(f.logger),
			persistence.WithTracing(telemetry.DBTracingConfig{
				Enabled:         f.telemetry.Enabled && f.telemetry.DBTraceEnabled,
				SlowQueryThresh: f.telemetry.DBSlowQueryThresh,
			}),
		)
		if err != nil {
			return nil, nil, err
		}
		src = NewSQLSource(db)
		closeFn = db.Close
	default:
		return nil, nil, fmt.Errorf("unsupported source kind %q", f.source.Kind)
	}

	f.logger.Info("Table source ready",
		zap.String("kind", f.source.Kind),
		zap.String("orders_table", f.source.OrdersTable),
		zap.String("customers_table", f.source.CustomersTable),
		zap.Duration("timeout", f.source.Timeout),
	)
	return WithTimeout(src, f.source.Timeout), closeFn, nil
}

// Package bootstrap assembles the lookup pipeline from configuration.
// It is shared by the HTTP server and the lookup CLI.
package bootstrap

import (
	"context"
	"fmt"

	trackingapp "github.com/rastreo/backend/internal/application/tracking"
	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	"github.com/rastreo/backend/internal/infrastructure/source"
	"go.uber.org/zap"
)

// Pipeline is a ready lookup service together with the source it reads
type Pipeline struct {
	Lookup *trackingapp.LookupService
	Source source.Source
	close  func() error
}

// Close releases the connection held by the source
func (p *Pipeline) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// Ping probes the source connection, if it holds one
func (p *Pipeline) Ping(ctx context.Context) error {
	return source.Ping(ctx, p.Source)
}

// Schema builds the normalizer and join keys from the schema section
func Schema(cfg config.SchemaConfig) (*trackingapp.SchemaNormalizer, trackingapp.JoinKeys, error) {
	orderAliases := trackingapp.DefaultOrderAliases().Extend(cfg.OrderAliases)
	customerAliases := trackingapp.DefaultCustomerAliases().Extend(cfg.CustomerAliases)

	keys := trackingapp.DefaultJoinKeys()
	if cfg.JoinOrderField != "" {
		keys.Order = tracking.Field(cfg.JoinOrderField)
	}
	if cfg.JoinCustomerField != "" {
		keys.Customer = tracking.Field(cfg.JoinCustomerField)
	}
	if _, ok := orderAliases[keys.Order]; !ok {
		return nil, keys, fmt.Errorf("schema.join_order_field %q is not an order field", keys.Order)
	}
	if _, ok := customerAliases[keys.Customer]; !ok {
		return nil, keys, fmt.Errorf("schema.join_customer_field %q is not a customer field", keys.Customer)
	}

	return trackingapp.NewSchemaNormalizer(orderAliases, customerAliases), keys, nil
}

// NewPipeline creates the configured table source and the lookup service over it
func NewPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...trackingapp.LookupOption) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}

	normalizer, keys, err := Schema(cfg.Schema)
	if err != nil {
		return nil, err
	}

	src, closeFn, err := source.NewFactory(cfg.Source,
		source.WithLogger(log),
		source.WithTelemetry(cfg.Telemetry),
	).Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", cfg.Source.Kind, err)
	}

	lookup := trackingapp.NewLookupService(src, normalizer, trackingapp.LookupConfig{
		OrdersTable:    cfg.Source.OrdersTable,
		CustomersTable: cfg.Source.CustomersTable,
		JoinKeys:       keys,
	}, log, opts...)

	return &Pipeline{
		Lookup: lookup,
		Source: src,
		close:  closeFn,
	}, nil
}

package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Advisory codes attached to a degraded join
const (
	AdvisoryCustomersUnavailable = "CUSTOMERS_UNAVAILABLE"
	AdvisoryCustomersSchema      = "CUSTOMERS_SCHEMA_MISMATCH"
)

// Advisory is a non-fatal notice shown alongside the lookup result
type Advisory struct {
	Code    string
	Message string
}

// AdvisoryFor describes why the customer join degraded
func AdvisoryFor(cause error) *Advisory {
	if errors.Is(cause, tracking.ErrSchemaMismatch) {
		return &Advisory{
			Code:    AdvisoryCustomersSchema,
			Message: "⚠️ La tabla de 'Clientes' no tiene las columnas esperadas. Se mostrará solo el ID de cliente.",
		}
	}
	return &Advisory{
		Code:    AdvisoryCustomersUnavailable,
		Message: "⚠️ Error al cargar la tabla de 'Clientes'. Se mostrará solo el ID de cliente.",
	}
}

// NotFoundMessage is the text shown when no order matches the ticket
func NotFoundMessage(ticket string) string {
	return fmt.Sprintf("No encontramos un pedido con el ticket %s. Por favor verifica.", ticket)
}

// LookupResult is the outcome of one pipeline run.
// With an empty query neither Order nor NotFoundMessage is set.
type LookupResult struct {
	Query           string
	Found           bool
	Order           *tracking.EnrichedOrder
	Plan            *tracking.DisplayPlan
	NotFoundMessage string
	Advisory        *Advisory
}

// LookupConfig names the tables read by the pipeline and the join key pair
type LookupConfig struct {
	OrdersTable    string
	CustomersTable string
	JoinKeys       JoinKeys
}

// DefaultLookupConfig returns the worksheet names of the original spreadsheet
func DefaultLookupConfig() LookupConfig {
	return LookupConfig{
		OrdersTable:    "Ticket",
		CustomersTable: "Cliente",
		JoinKeys:       DefaultJoinKeys(),
	}
}

// LookupOption configures a LookupService
type LookupOption func(*LookupService)

// WithLookupMetrics sets the metrics recorder
func WithLookupMetrics(m LookupMetrics) LookupOption {
	return func(s *LookupService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// LookupService runs the lookup pipeline against a table source
type LookupService struct {
	source     TableSource
	normalizer *SchemaNormalizer
	config     LookupConfig
	logger     *zap.Logger
	metrics    LookupMetrics
}

// NewLookupService creates a new lookup service
func NewLookupService(
	source TableSource,
	normalizer *SchemaNormalizer,
	config LookupConfig,
	logger *zap.Logger,
	opts ...LookupOption,
) *LookupService {
	if normalizer == nil {
		normalizer = NewSchemaNormalizer(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.JoinKeys == (JoinKeys{}) {
		config.JoinKeys = DefaultJoinKeys()
	}
	s := &LookupService{
		source:     source,
		normalizer: normalizer,
		config:     config,
		logger:     logger,
		metrics:    noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup reads both tables, joins them and resolves the query.
// Errors are returned only for the orders table: an unavailable source or a
// schema mismatch. Customer failures degrade to an advisory.
func (s *LookupService) Lookup(ctx context.Context, query string) (*LookupResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "lookup")
	defer span.End()

	ticket := tracking.NormalizeTicket(query)
	telemetry.SetAttribute(span, telemetry.SpanAttrTicket, ticket)

	ordersTable, err := s.fetch(ctx, s.config.OrdersTable)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordLookup(ctx, OutcomeError)
		return nil, err
	}

	orders, err := s.normalizer.NormalizeOrders(ordersTable)
	if err != nil {
		s.logger.Error("Orders table does not match the configured schema",
			zap.String("table", s.config.OrdersTable),
			zap.Error(err))
		telemetry.RecordError(span, err)
		s.metrics.RecordLookup(ctx, OutcomeError)
		return nil, err
	}

	var customers tracking.CustomerSet
	customersTable, customersErr := s.fetch(ctx, s.config.CustomersTable)
	if customersErr == nil {
		customers, customersErr = s.normalizer.NormalizeCustomers(customersTable)
	}

	joined := Join(orders, customers, customersErr, s.config.JoinKeys)
	result := &LookupResult{Query: ticket}
	if joined.Degraded {
		result.Advisory = AdvisoryFor(joined.Cause)
		s.logger.Warn("Customer join degraded, showing customer references",
			zap.String("table", s.config.CustomersTable),
			zap.String("advisory", result.Advisory.Code),
			zap.Error(joined.Cause))
		telemetry.AddEvent(span, "join_degraded", "advisory", result.Advisory.Code)
		s.metrics.RecordJoinDegraded(ctx, result.Advisory.Code)
	}

	if ticket == "" {
		s.metrics.RecordLookup(ctx, OutcomeEmpty)
		return result, nil
	}

	order, found := Resolve(joined.Orders, ticket)
	if !found {
		result.NotFoundMessage = NotFoundMessage(ticket)
		s.logger.Info("Order not found", zap.String("ticket", ticket))
		telemetry.SetAttribute(span, telemetry.SpanAttrFound, false)
		s.metrics.RecordLookup(ctx, OutcomeNotFound)
		return result, nil
	}

	plan := tracking.BuildPlan(order)
	result.Found = true
	result.Order = &order
	result.Plan = &plan

	s.logger.Info("Order found",
		zap.String("ticket", ticket),
		zap.String("status", string(plan.Status)),
		zap.Bool("degraded", joined.Degraded))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFound, true,
		telemetry.SpanAttrStatus, string(plan.Status),
	)
	s.metrics.RecordLookup(ctx, OutcomeFound)
	return result, nil
}

func (s *LookupService) fetch(ctx context.Context, name string) (*tracking.Table, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "fetch",
		telemetry.WithAttribute(telemetry.SpanAttrTable, name),
		telemetry.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	table, err := s.source.FetchTable(ctx, name)
	if err == nil && table == nil {
		err = fmt.Errorf("source returned no table")
	}
	if err != nil && !errors.Is(err, tracking.ErrSourceUnavailable) {
		err = tracking.NewSourceUnavailableError(name, err)
	}
	s.metrics.RecordFetch(ctx, name, time.Since(start), err)

	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Debug("Table fetch failed", zap.String("table", name), zap.Error(err))
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrRows, len(table.Rows))
	return table, nil
}

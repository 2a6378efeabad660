package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTableSource is a mock implementation of TableSource
type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) FetchTable(ctx context.Context, name string) (*tracking.Table, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Table), args.Error(1)
}

// MockLookupMetrics is a mock implementation of LookupMetrics
type MockLookupMetrics struct {
	mock.Mock
}

func (m *MockLookupMetrics) RecordLookup(ctx context.Context, outcome string) {
	m.Called(ctx, outcome)
}

func (m *MockLookupMetrics) RecordFetch(ctx context.Context, table string, duration time.Duration, err error) {
	m.Called(ctx, table, duration, err)
}

func (m *MockLookupMetrics) RecordJoinDegraded(ctx context.Context, reason string) {
	m.Called(ctx, reason)
}

func sampleOrders() *tracking.Table {
	return ordersTable(
		tracking.Row{
			"Id": "1234", "IdCliente": "7", "Cliente": "C-7", "Estado": "Entregado",
			"Cargado": "2024-01-01 10:00", "Fecha empaquetado": "2024-01-02", "Fecha entrega": "2024-01-03",
			"Repartidor": "Luis", "Direccion": "Calle 5",
		},
		tracking.Row{
			"Id": "5678", "IdCliente": "8", "Cliente": "C-8", "Estado": "Cargado",
			"Cargado": "2024-03-09", "Fecha empaquetado": "", "Fecha entrega": "2024-03-10",
		},
		tracking.Row{
			"Id": "9000", "IdCliente": "9", "Cliente": "C-9", "Estado": "Cancelado",
		},
	)
}

func sampleCustomers() *tracking.Table {
	return customersTable(
		tracking.Row{"IdCliente": "7", "Nombre": "Ana López"},
		tracking.Row{"IdCliente": "8", "Nombre": "Bruno Díaz"},
	)
}

func newTestLookupService(source TableSource) *LookupService {
	return NewLookupService(source, nil, DefaultLookupConfig(), nil)
}

func TestLookupService_Found(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(sampleCustomers(), nil)

	result, err := newTestLookupService(source).Lookup(context.Background(), " 1234 ")
	require.NoError(t, err)

	assert.Equal(t, "1234", result.Query)
	assert.True(t, result.Found)
	assert.Nil(t, result.Advisory)
	assert.Empty(t, result.NotFoundMessage)
	require.NotNil(t, result.Order)
	assert.Equal(t, "Ana López", result.Order.DisplayName)
	assert.Equal(t, "Luis", result.Order.Courier)
	require.NotNil(t, result.Plan)
	assert.Equal(t, tracking.StatusDelivered, result.Plan.Status)
	assert.Equal(t, "01/01/2024", result.Plan.Metrics[0].Value)
	source.AssertExpectations(t)
}

func TestLookupService_LoadedShowsTentativeDelivery(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(sampleCustomers(), nil)

	result, err := newTestLookupService(source).Lookup(context.Background(), "5678")
	require.NoError(t, err)

	require.True(t, result.Found)
	last := result.Plan.Metrics[len(result.Plan.Metrics)-1]
	assert.Equal(t, tracking.MetricTentativeDelivery, last.Kind)
	assert.Equal(t, "11/03/2024", last.Value)
}

func TestLookupService_UnrecognizedStatus(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(sampleCustomers(), nil)

	result, err := newTestLookupService(source).Lookup(context.Background(), "9000")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.False(t, result.Plan.Recognized)
	assert.Empty(t, result.Plan.Metrics)
	assert.Equal(t, "C-9", result.Order.DisplayName)
}

func TestLookupService_NotFound(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(sampleCustomers(), nil)

	result, err := newTestLookupService(source).Lookup(context.Background(), "4321")
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.Nil(t, result.Order)
	assert.Equal(t, "No encontramos un pedido con el ticket 4321. Por favor verifica.", result.NotFoundMessage)
}

func TestLookupService_EmptyQuery(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(sampleCustomers(), nil)

	result, err := newTestLookupService(source).Lookup(context.Background(), "   ")
	require.NoError(t, err)

	assert.Empty(t, result.Query)
	assert.False(t, result.Found)
	assert.Empty(t, result.NotFoundMessage)
	assert.Nil(t, result.Order)
}

func TestLookupService_CustomersUnavailable(t *testing.T) {
	source := new(MockTableSource)
	metrics := new(MockLookupMetrics)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(nil, errors.New("worksheet not found"))
	metrics.On("RecordFetch", mock.Anything, "Ticket", mock.Anything, nil).Once()
	metrics.On("RecordFetch", mock.Anything, "Cliente", mock.Anything, mock.Anything).Once()
	metrics.On("RecordJoinDegraded", mock.Anything, AdvisoryCustomersUnavailable).Once()
	metrics.On("RecordLookup", mock.Anything, OutcomeFound).Once()

	svc := NewLookupService(source, nil, DefaultLookupConfig(), nil, WithLookupMetrics(metrics))
	result, err := svc.Lookup(context.Background(), "1234")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, "C-7", result.Order.DisplayName)
	assert.Empty(t, result.Order.CustomerName)
	require.NotNil(t, result.Advisory)
	assert.Equal(t, AdvisoryCustomersUnavailable, result.Advisory.Code)
	assert.Contains(t, result.Advisory.Message, "Clientes")
	metrics.AssertExpectations(t)
}

func TestLookupService_CustomersSchemaMismatch(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(sampleOrders(), nil)
	source.On("FetchTable", mock.Anything, "Cliente").Return(&tracking.Table{
		Name:    "Cliente",
		Columns: []string{"Codigo", "Nombre"},
	}, nil)

	result, err := newTestLookupService(source).Lookup(context.Background(), "1234")
	require.NoError(t, err)

	require.NotNil(t, result.Advisory)
	assert.Equal(t, AdvisoryCustomersSchema, result.Advisory.Code)
	assert.Equal(t, "C-7", result.Order.DisplayName)
}

func TestLookupService_OrdersUnavailable(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(nil, errors.New("timeout"))

	result, err := newTestLookupService(source).Lookup(context.Background(), "1234")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, tracking.ErrSourceUnavailable))
	source.AssertNotCalled(t, "FetchTable", mock.Anything, "Cliente")
}

func TestLookupService_OrdersSchemaMismatch(t *testing.T) {
	source := new(MockTableSource)
	source.On("FetchTable", mock.Anything, "Ticket").Return(&tracking.Table{
		Name:    "Ticket",
		Columns: []string{"Folio", "Estado"},
	}, nil)

	_, err := newTestLookupService(source).Lookup(context.Background(), "1234")

	assert.True(t, errors.Is(err, tracking.ErrSchemaMismatch))
	assert.False(t, errors.Is(err, tracking.ErrSourceUnavailable))
}

func TestLookupService_CustomTables(t *testing.T) {
	source := new(MockTableSource)
	orders := sampleOrders()
	orders.Name = "pedidos"
	source.On("FetchTable", mock.Anything, "pedidos").Return(orders, nil)
	source.On("FetchTable", mock.Anything, "clientes").Return(sampleCustomers(), nil)

	svc := NewLookupService(source, nil, LookupConfig{OrdersTable: "pedidos", CustomersTable: "clientes"}, nil)
	result, err := svc.Lookup(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, "Ana López", result.Order.DisplayName)
}

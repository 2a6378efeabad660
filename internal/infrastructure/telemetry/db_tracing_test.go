package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func recordingSpan(t *testing.T) (context.Context, *tracetest.SpanRecorder, func()) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	return ctx, recorder, func() { span.End() }
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled leaves callbacks untouched", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
		assert.Nil(t, db.Callback().Raw().Get("rastreo:before_raw"))
	})

	t.Run("enabled registers plugin and callbacks", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop()))
		assert.NotNil(t, db.Callback().Raw().Get("rastreo:before_raw"))
		assert.NotNil(t, db.Callback().Row().Get("rastreo:after_row"))

		var n int
		require.NoError(t, db.Raw("SELECT 1").Row().Scan(&n))
		assert.Equal(t, 1, n)
	})
}

func TestMarkSlowQuery(t *testing.T) {
	t.Run("slow query is flagged", func(t *testing.T) {
		ctx, recorder, end := recordingSpan(t)
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))
		tx := &gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "Ticket"}}

		markSlowQuery(tx, 100*time.Millisecond)
		end()

		spans := recorder.Ended()
		require.Len(t, spans, 1)
		attrs := spanAttrs(spans[0])
		assert.True(t, attrs["db.slow_query"].AsBool())
		assert.Equal(t, "Ticket", attrs["db.sql.table"].AsString())
	})

	t.Run("fast query is not flagged", func(t *testing.T) {
		ctx, recorder, end := recordingSpan(t)
		ctx = context.WithValue(ctx, queryStartTimeKey, time.Now())
		tx := &gorm.DB{Statement: &gorm.Statement{Context: ctx}}

		markSlowQuery(tx, time.Minute)
		end()

		attrs := spanAttrs(recorder.Ended()[0])
		assert.NotContains(t, attrs, attribute.Key("db.slow_query"))
	})

	t.Run("query error marks the span", func(t *testing.T) {
		ctx, recorder, end := recordingSpan(t)
		tx := &gorm.DB{Statement: &gorm.Statement{Context: ctx}, Error: errors.New("no such table: Ticket")}

		markSlowQuery(tx, time.Minute)
		end()

		assert.Equal(t, codes.Error, recorder.Ended()[0].Status().Code)
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		ctx, recorder, end := recordingSpan(t)
		tx := &gorm.DB{Statement: &gorm.Statement{Context: ctx}, Error: gorm.ErrRecordNotFound}

		markSlowQuery(tx, time.Minute)
		end()

		assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
	})

	t.Run("nil context is ignored", func(t *testing.T) {
		tx := &gorm.DB{Statement: &gorm.Statement{}}
		assert.NotPanics(t, func() { markSlowQuery(tx, time.Minute) })
	})
}

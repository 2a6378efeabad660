package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(10*time.Millisecond))
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-7")
	ctx = context.WithValue(ctx, SessionIDKey, "s-42")
	fc := func() (string, int64) { return `SELECT * FROM "Ticket"`, 3 }

	gl.Trace(ctx, time.Now(), fc, nil)
	gl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	gl.Trace(ctx, time.Now(), fc, errors.New("no such table"))
	gl.Trace(ctx, time.Now(), fc, gormlogger.ErrRecordNotFound)

	logs := recorded.All()
	require.Len(t, logs, 4)
	assert.Equal(t, "Table query", logs[0].Message)
	assert.Equal(t, "Slow table query", logs[1].Message)
	assert.Equal(t, "Table query failed", logs[2].Message)
	assert.Equal(t, "Table query", logs[3].Message)
	assert.Equal(t, "req-7", logs[0].ContextMap()["request_id"])
	assert.Equal(t, "s-42", logs[0].ContextMap()["session_id"])
}

func TestGormLogger_Silent(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, recorded.All())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsConfig is the log export section of the telemetry settings
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
}

// LogsOption adjusts how NewLoggerProvider builds the SDK provider
type LogsOption func(*logsOptions)

type logsOptions struct {
	processors []sdklog.Processor
}

// WithLogProcessor registers p in place of the OTLP batch exporter
func WithLogProcessor(p sdklog.Processor) LogsOption {
	return func(o *logsOptions) {
		o.processors = append(o.processors, p)
	}
}

// LoggerProvider owns the OTEL log pipeline that Bridge forwards zap entries to.
// A nil or disabled provider makes Bridge a no-op.
type LoggerProvider struct {
	provider *sdklog.LoggerProvider
}

// NewLoggerProvider builds the log pipeline and installs it globally
func NewLoggerProvider(ctx context.Context, cfg LogsConfig, logger *zap.Logger, opts ...LogsOption) (*LoggerProvider, error) {
	lp := &LoggerProvider{}
	if !cfg.Enabled {
		logger.Debug("Log export disabled")
		return lp, nil
	}

	var o logsOptions
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.processors) == 0 {
		exporter, err := newLogExporter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		o.processors = append(o.processors, sdklog.NewBatchProcessor(exporter))
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, err
	}

	sdkOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, p := range o.processors {
		sdkOpts = append(sdkOpts, sdklog.WithProcessor(p))
	}
	lp.provider = sdklog.NewLoggerProvider(sdkOpts...)
	global.SetLoggerProvider(lp.provider)

	logger.Info("Log export enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return lp, nil
}

func newLogExporter(ctx context.Context, cfg LogsConfig) (sdklog.Exporter, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP log exporter for %s: %w", cfg.CollectorEndpoint, err)
	}
	return exporter, nil
}

// IsEnabled reports whether zap entries are forwarded
func (lp *LoggerProvider) IsEnabled() bool {
	return lp != nil && lp.provider != nil
}

// Shutdown flushes buffered records, bounded by shutdownTimeout
func (lp *LoggerProvider) Shutdown(ctx context.Context) error {
	if !lp.IsEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := lp.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown logger provider: %w", err)
	}
	return nil
}

// NewZapOTELCore returns a core forwarding entries at or above level to the
// log pipeline, or a no-op core when lp is disabled
func NewZapOTELCore(serviceName string, lp *LoggerProvider, level zapcore.Level) zapcore.Core {
	if !lp.IsEnabled() {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(lp.provider))
	return &levelFilterCore{Core: core, minLevel: level}
}

// Bridge tees base into the log pipeline at base's level.
// base is returned as is when lp is disabled.
func Bridge(base *zap.Logger, serviceName string, lp *LoggerProvider) *zap.Logger {
	if !lp.IsEnabled() {
		return base
	}
	otelCore := NewZapOTELCore(serviceName, lp, base.Level())
	return base.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, otelCore)
	}))
}

// levelFilterCore drops entries below minLevel before they reach the bridge
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}

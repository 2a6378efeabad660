package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/rastreo/backend/internal/domain/tracking"
	"github.com/rastreo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SessionStore is a closable session repository
type SessionStore interface {
	tracking.SessionRepository
	io.Closer
	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}

// SessionStoreFactory creates session stores based on configuration
type SessionStoreFactory struct {
	cfg                   config.SessionConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SessionStoreFactoryOption is a functional option for configuring the factory
type SessionStoreFactoryOption func(*SessionStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory store when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) SessionStoreFactoryOption {
	return func(f *SessionStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSessionStoreFactory creates a new factory
func NewSessionStoreFactory(cfg config.SessionConfig, opts ...SessionStoreFactoryOption) *SessionStoreFactory {
	f := &SessionStoreFactory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based session store
func (f *SessionStoreFactory) CreateRedisStore() (SessionStore, error) {
	redisCfg := RedisConfig{
		Host:     f.cfg.Redis.Host,
		Port:     f.cfg.Redis.Port,
		Password: f.cfg.Redis.Password,
		DB:       f.cfg.Redis.DB,
	}

	store, err := NewRedisSessionStore(redisCfg, f.cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis session store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory session store
// This is suitable for single-instance deployments and testing
// WARNING: In-memory stores do not share state across process instances,
// so a session created on one instance is unknown to the others
func (f *SessionStoreFactory) CreateInMemoryStore() SessionStore {
	return NewInMemorySessionStore(f.cfg.TTL)
}

// CreateStore creates the configured session store. With the redis backend it
// falls back to in-memory when Redis is unreachable and fallback is allowed.
func (f *SessionStoreFactory) CreateStore() (SessionStore, error) {
	if f.cfg.Backend != config.SessionRedis {
		f.logger.Info("using in-memory session store", zap.Duration("ttl", f.cfg.TTL))
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis session store", zap.String("addr", f.cfg.Redis.Addr()))
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for sessions but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory session store. "+
		"Sessions will not be shared between instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}

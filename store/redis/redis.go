package redis

import (
	"context"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/utpal03/portalkit/log"
)

// Client wraps a go-redis universal client with project logging and
// optional tracing instrumentation.
type Client struct {
	client redis.UniversalClient
	config *Config
	logger *log.Logger
}

// Option configures the client.
type Option func(*options)

type options struct {
	logger  *log.Logger
	tracing bool
}

// WithLogger sets a custom logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracing instruments the client with OpenTelemetry tracing.
func WithTracing() Option {
	return func(o *options) {
		o.tracing = true
	}
}

// New creates a Redis client and verifies the connection.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}

	o := &options{logger: log.G}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		config: cfg,
		logger: o.logger,
		client: redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        cfg.Addrs,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			Protocol:     cfg.Protocol,
			DialTimeout:  cfg.dialTimeout(),
			ReadTimeout:  cfg.readTimeout(),
			WriteTimeout: cfg.writeTimeout(),
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
			TLSConfig:    cfg.TLSConfig,
		}),
	}

	var success bool
	defer func() {
		if !success {
			_ = c.client.Close()
		}
	}()

	if o.tracing {
		if err := redisotel.InstrumentTracing(c.client); err != nil {
			return nil, err
		}
	}

	if err := c.Ping(context.Background()); err != nil {
		return nil, err
	}

	success = true
	c.logger.Debug().Interface("addrs", cfg.Addrs).Msg("redis client created")
	return c, nil
}

// Universal returns the underlying go-redis client.
func (c *Client) Universal() redis.UniversalClient {
	return c.client
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}

package db

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/utpal03/portalkit/log"
)

// Client wraps a gorm connection with pool configuration and logging.
type Client struct {
	config DriverConfig
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *log.Logger

	connectTimeout time.Duration
	slowQuery      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger queries are written to.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithConnectTimeout bounds the initial connectivity check.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithSlowQuery enables slow query logging above the threshold.
func WithSlowQuery(threshold time.Duration) Option {
	return func(c *Client) {
		c.slowQuery = threshold
	}
}

// New opens a database connection and verifies it with a ping.
func New(cfg DriverConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}

	c := &Client{
		config:         cfg,
		logger:         log.G,
		connectTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), c.connectTimeout)
	defer cancel()

	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.logger.Debug().Str("driver", cfg.Driver().String()).Msg("database client created")

	return c, nil
}

func (c *Client) connect() error {
	dialector, err := c.dialector()
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, c.gormConfig())
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	pool := c.config.Pool()
	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	c.db = db
	c.sqlDB = sqlDB
	return nil
}

func (c *Client) dialector() (gorm.Dialector, error) {
	dsn := c.config.DSN()

	switch c.config.Driver() {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func (c *Client) gormConfig() *gorm.Config {
	loggerConfig := gormlogger.Config{
		LogLevel:                  gormlogger.LogLevel(c.config.LogLevel()),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	}
	if c.slowQuery > 0 {
		loggerConfig.SlowThreshold = c.slowQuery
	}

	return &gorm.Config{
		Logger: gormlogger.New(gormLogWriter{logger: c.logger}, loggerConfig),
	}
}

// DB returns the gorm handle.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.sqlDB == nil {
		return ErrNotInitialized
	}
	return c.sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c.sqlDB != nil {
		return c.sqlDB.Close()
	}
	return nil
}

// Stats returns connection pool statistics.
func (c *Client) Stats() sql.DBStats {
	if c.sqlDB == nil {
		return sql.DBStats{}
	}
	return c.sqlDB.Stats()
}

// gormLogWriter adapts the structured logger to gorm's logger.Writer.
type gormLogWriter struct {
	logger *log.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.logger.Info().Msgf(format, args...)
}

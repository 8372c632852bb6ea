package db

import (
	"strings"
	"time"
)

// Driver selects the database backend.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) String() string {
	return string(d)
}

// LogLevel controls gorm query logging.
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// ParseLogLevel parses a log level name, defaulting to silent.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "info":
		return LogLevelInfo
	default:
		return LogLevelSilent
	}
}

// PoolConfig configures the sql.DB connection pool.
type PoolConfig struct {
	MaxIdleConns    int           `json:"maxIdleConns" default:"10"`
	MaxOpenConns    int           `json:"maxOpenConns" default:"100"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" default:"1h"`
	ConnMaxIdleTime time.Duration `json:"connMaxIdleTime" default:"10m"`
}

// DriverConfig is implemented by each backend's configuration.
type DriverConfig interface {
	// Driver returns the backend type.
	Driver() Driver

	// DSN returns the data source name.
	DSN() string

	// Pool returns the connection pool configuration.
	Pool() *PoolConfig

	// Init applies defaults. Idempotent.
	Init() error

	// LogLevel returns the query log level.
	LogLevel() LogLevel
}
